package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/battcast/backend/internal/contracts"
	"github.com/battcast/backend/internal/dataset"
	"github.com/battcast/backend/internal/forecast"
	"github.com/battcast/backend/internal/store"
	"github.com/battcast/backend/internal/units"
	"github.com/battcast/backend/pkg/config"
	"github.com/battcast/backend/pkg/database"
	"github.com/battcast/backend/pkg/logger"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Import data and rebuild forecasts",
	Long: `Rebuilds the material forecast and chemistry cost tables.

Optionally imports CSV data first:
- --prices: wide monthly panel (date column plus one column per material)
- --price-table: long table (date, material, price, optional unit)
- --intensity: intensity baseline (chemistry, material, tons_per_gwh)

Then fits one model per material over the stored panel, extrapolates the
forecast horizon, composes baseline chemistry costs and the annual roll-up,
and persists everything.

Example:
  go run ./cmd/battcast build --prices data/prices_monthly.csv --intensity data/intensity_baseline.csv
  go run ./cmd/battcast build`,
	RunE: runBuild,
}

var (
	buildPricesPath     string
	buildPriceTablePath string
	buildIntensityPath  string
)

func init() {
	rootCmd.AddCommand(buildCmd)

	// Flags
	buildCmd.Flags().StringVar(&buildPricesPath, "prices", "", "wide monthly price panel CSV")
	buildCmd.Flags().StringVar(&buildPriceTablePath, "price-table", "", "long price table CSV with units")
	buildCmd.Flags().StringVar(&buildIntensityPath, "intensity", "", "intensity baseline CSV")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	priceRepo := store.NewPriceRepository(db.Pool)
	intensityRepo := store.NewIntensityRepository(db.Pool)
	forecastRepo := store.NewForecastRepository(db.Pool)

	if buildPricesPath != "" {
		panel, err := dataset.LoadPricePanel(buildPricesPath)
		if err != nil {
			return fmt.Errorf("load price panel: %w", err)
		}

		var rows []contracts.PriceRow
		for material, points := range panel {
			for _, p := range points {
				rows = append(rows, contracts.PriceRow{
					Material:  material,
					Month:     p.Month,
					USDPerTon: p.USDPerTon,
				})
			}
		}
		if err := priceRepo.SaveBatch(ctx, rows); err != nil {
			return fmt.Errorf("save price panel: %w", err)
		}
		log.WithField("rows", len(rows)).Info("Price panel imported")
	}

	if buildPriceTablePath != "" {
		rows, err := dataset.LoadPriceTable(buildPriceTablePath, units.DefaultUSDPerCNY, log.Zerolog())
		if err != nil {
			return fmt.Errorf("load price table: %w", err)
		}
		if err := priceRepo.SaveBatch(ctx, rows); err != nil {
			return fmt.Errorf("save price table: %w", err)
		}
		log.WithField("rows", len(rows)).Info("Price table imported")
	}

	if buildIntensityPath != "" {
		records, err := dataset.LoadIntensityBaseline(buildIntensityPath)
		if err != nil {
			return fmt.Errorf("load intensity baseline: %w", err)
		}
		if err := intensityRepo.ReplaceAll(ctx, records); err != nil {
			return fmt.Errorf("save intensity baseline: %w", err)
		}
		log.WithField("records", len(records)).Info("Intensity baseline imported")
	}

	builder := forecast.NewBuilder(
		cfg.Forecast.RollingMonths,
		cfg.Forecast.ForecastMonths,
		time.Now().UTC(),
		log.Zerolog(),
	)

	rebuilder := forecast.NewRebuilder(
		priceRepo, intensityRepo, forecastRepo, builder,
		forecast.RebuildDefaults{
			RecyclePct:      cfg.Scenario.RecyclePct,
			PackOverheadPct: cfg.Scenario.PackOverheadPct,
			USDToLocalFX:    cfg.Scenario.USDToLocalFX,
		},
		log.Zerolog(),
	)

	start := time.Now()
	if err := rebuilder.Run(ctx); err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}

	fmt.Printf("✅ Rebuild completed in %.2fs\n", time.Since(start).Seconds())
	return nil
}
