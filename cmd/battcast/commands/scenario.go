package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/battcast/backend/internal/contracts"
	"github.com/battcast/backend/internal/dataset"
	"github.com/battcast/backend/internal/scenario"
	"github.com/battcast/backend/internal/store"
	"github.com/battcast/backend/pkg/config"
	"github.com/battcast/backend/pkg/database"
	"github.com/battcast/backend/pkg/logger"
)

// scenarioCmd represents the scenario command
var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Evaluate a scenario against the stored baseline",
	Long: `Applies price shocks, import duties and recycling rates to the stored
material forecasts and recomposes chemistry costs.

Parameters come from a named preset in a YAML file. The result is printed
as JSON.

Example:
  go run ./cmd/battcast scenario --preset presets.yaml --name tariff_war
  go run ./cmd/battcast scenario --preset presets.yaml --name tariff_war --chemistries nmc811,lfp`,
	RunE: runScenario,
}

var (
	scenarioPresetPath  string
	scenarioPresetName  string
	scenarioChemistries string
)

func init() {
	rootCmd.AddCommand(scenarioCmd)

	// Flags
	scenarioCmd.Flags().StringVar(&scenarioPresetPath, "preset", "", "preset YAML file (required)")
	scenarioCmd.Flags().StringVar(&scenarioPresetName, "name", "", "preset name (required)")
	scenarioCmd.Flags().StringVar(&scenarioChemistries, "chemistries", "", "comma-separated chemistry filter (default: all)")
	scenarioCmd.MarkFlagRequired("preset")
	scenarioCmd.MarkFlagRequired("name")
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	preset, err := dataset.LoadPreset(scenarioPresetPath, scenarioPresetName)
	if err != nil {
		return fmt.Errorf("load preset: %w", err)
	}
	params := preset.Parameters(cfg.Scenario.PackOverheadPct, cfg.Scenario.USDToLocalFX)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	base, err := store.NewForecastRepository(db.Pool).GetMaterialSeries(ctx)
	if err != nil {
		return fmt.Errorf("load material forecasts: %w", err)
	}

	records, err := store.NewIntensityRepository(db.Pool).GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load intensity baseline: %w", err)
	}

	var chemistries []string
	if scenarioChemistries != "" {
		for _, c := range strings.Split(scenarioChemistries, ",") {
			chemistries = append(chemistries, contracts.CanonicalChemistry(c))
		}
	} else {
		seen := make(map[string]bool)
		for _, rec := range records {
			c := contracts.CanonicalChemistry(rec.Chemistry)
			if !seen[c] {
				seen[c] = true
				chemistries = append(chemistries, c)
			}
		}
	}
	sort.Strings(chemistries)

	engine := scenario.NewEngine(log.Zerolog())
	result := engine.Apply(base, records, chemistries, params)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Preset      string                       `json:"preset"`
		Fingerprint string                       `json:"fingerprint"`
		Parameters  contracts.ScenarioParameters `json:"parameters"`
		Result      scenario.Result              `json:"result"`
	}{
		Preset:      preset.Name,
		Fingerprint: params.Fingerprint(),
		Parameters:  params,
		Result:      result,
	})
}
