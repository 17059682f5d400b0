package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battcast/backend/internal/contracts"
	"github.com/battcast/backend/internal/store"
	"github.com/battcast/backend/pkg/config"
	"github.com/battcast/backend/pkg/database"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored table summary",
	Long: `Prints a summary of the stored tables: materials in the price panel,
material forecast coverage and chemistry cost coverage.

Example:
  go run ./cmd/battcast status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	materials, err := store.NewPriceRepository(db.Pool).Materials(ctx)
	if err != nil {
		return fmt.Errorf("list materials: %w", err)
	}

	forecastRepo := store.NewForecastRepository(db.Pool)
	series, err := forecastRepo.GetMaterialSeries(ctx)
	if err != nil {
		return fmt.Errorf("load material forecasts: %w", err)
	}
	costs, err := forecastRepo.GetChemistryCosts(ctx)
	if err != nil {
		return fmt.Errorf("load chemistry costs: %w", err)
	}

	records, err := store.NewIntensityRepository(db.Pool).GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load intensity baseline: %w", err)
	}

	fmt.Println("📊 battcast status")
	fmt.Printf("%-24s %6d\n", "panel materials:", len(materials))
	fmt.Printf("%-24s %6d\n", "intensity records:", len(records))
	fmt.Printf("%-24s %6d\n", "forecast series:", len(series))
	fmt.Printf("%-24s %6d\n", "chemistry cost series:", len(costs))

	for _, m := range materials {
		s, ok := series[m]
		if !ok {
			fmt.Printf("  %-22s no forecast\n", m)
			continue
		}
		var hist, fcst int
		for _, p := range s.Points {
			if p.Kind == contracts.KindHistory {
				hist++
			} else {
				fcst++
			}
		}
		fmt.Printf("  %-22s %3d history + %3d forecast months\n", m, hist, fcst)
	}

	return nil
}
