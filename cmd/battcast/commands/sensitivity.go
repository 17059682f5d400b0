package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/battcast/backend/internal/contracts"
	"github.com/battcast/backend/internal/dataset"
	"github.com/battcast/backend/internal/scenario"
	"github.com/battcast/backend/internal/sensitivity"
	"github.com/battcast/backend/internal/store"
	"github.com/battcast/backend/pkg/config"
	"github.com/battcast/backend/pkg/database"
)

// sensitivityCmd represents the sensitivity command
var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "Per-material cost sensitivity for one chemistry and month",
	Long: `Displaces each basket material's price by ±10% and reports the
resulting pack cost deltas, sorted by impact. With --preset and --name the
tornado is evaluated under that scenario's shocked prices and duties instead
of the unshocked baseline.

Example:
  go run ./cmd/battcast sensitivity --chemistry nmc811
  go run ./cmd/battcast sensitivity --chemistry lfp --month 2026-12
  go run ./cmd/battcast sensitivity --chemistry lfp --preset presets.yaml --name tariff_war`,
	RunE: runSensitivity,
}

var (
	sensitivityChemistry  string
	sensitivityMonth      string
	sensitivityPresetFile string
	sensitivityPresetName string
)

func init() {
	rootCmd.AddCommand(sensitivityCmd)

	// Flags
	sensitivityCmd.Flags().StringVar(&sensitivityChemistry, "chemistry", "", "chemistry (required)")
	sensitivityCmd.Flags().StringVar(&sensitivityMonth, "month", "", "month as YYYY-MM (default: current month)")
	sensitivityCmd.Flags().StringVar(&sensitivityPresetFile, "preset", "", "scenario preset YAML file")
	sensitivityCmd.Flags().StringVar(&sensitivityPresetName, "name", "", "scenario preset name (requires --preset)")
	sensitivityCmd.MarkFlagRequired("chemistry")
	sensitivityCmd.MarkFlagsRequiredTogether("preset", "name")
}

func runSensitivity(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	month := contracts.MonthStart(time.Now().UTC())
	if sensitivityMonth != "" {
		parsed, err := time.Parse("2006-01", sensitivityMonth)
		if err != nil {
			return fmt.Errorf("month must be YYYY-MM: %w", err)
		}
		month = contracts.MonthStart(parsed)
	}

	params := contracts.ScenarioParameters{
		GlobalRecyclePct: cfg.Scenario.RecyclePct,
		PackOverheadPct:  cfg.Scenario.PackOverheadPct,
		USDToLocalFX:     cfg.Scenario.USDToLocalFX,
	}
	if sensitivityPresetFile != "" {
		preset, err := dataset.LoadPreset(sensitivityPresetFile, sensitivityPresetName)
		if err != nil {
			return fmt.Errorf("load preset: %w", err)
		}
		params = preset.Parameters(cfg.Scenario.PackOverheadPct, cfg.Scenario.USDToLocalFX)
	}
	params = params.Canonicalize()

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	prices, err := store.NewForecastRepository(db.Pool).GetMaterialSeries(ctx)
	if err != nil {
		return fmt.Errorf("load material forecasts: %w", err)
	}

	records, err := store.NewIntensityRepository(db.Pool).GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load intensity baseline: %w", err)
	}

	chemistry := contracts.CanonicalChemistry(sensitivityChemistry)
	results := sensitivity.Analyze(sensitivity.Input{
		Chemistry:       chemistry,
		Month:           month,
		Basket:          scenario.EffectiveIntensities(records, params),
		Prices:          scenario.ShockPrices(prices, params),
		PackOverheadPct: params.PackOverheadPct,
	})

	if len(results) == 0 {
		fmt.Printf("No basket materials priced for %s at %s\n", chemistry, month.Format("2006-01"))
		return nil
	}

	fmt.Printf("Sensitivity for %s at %s (±10%% price displacement)\n\n", chemistry, month.Format("2006-01"))
	fmt.Printf("%-22s %14s %14s %14s\n", "material", "usd/kwh", "delta up", "delta down")
	for _, r := range results {
		fmt.Printf("%-22s %14.4f %+14.4f %+14.4f\n",
			r.Material, r.ContributionUSDPerKWh, r.DeltaUp, r.DeltaDown)
	}

	return nil
}
