package contracts

import (
	"context"
	"time"
)

// PriceRow is one raw observation of the monthly price table.
type PriceRow struct {
	Material  string
	Month     time.Time
	USDPerTon float64
}

// PriceRepository stores the raw monthly price panel the forecaster trains on.
type PriceRepository interface {
	SaveBatch(ctx context.Context, rows []PriceRow) error
	// GetPanel returns all observations grouped by material, ordered by month.
	GetPanel(ctx context.Context) (map[string][]PricePoint, error)
	Materials(ctx context.Context) ([]string, error)
}

// IntensityRepository stores the externally supplied intensity baseline.
type IntensityRepository interface {
	GetAll(ctx context.Context) ([]IntensityRecord, error)
	ReplaceAll(ctx context.Context, records []IntensityRecord) error
}

// ForecastRepository stores rebuild outputs: the material forecast table and
// the derived chemistry cost tables. Each rebuild replaces the previous one.
type ForecastRepository interface {
	SaveMaterialSeries(ctx context.Context, series []MaterialPriceSeries) error
	GetMaterialSeries(ctx context.Context) (map[string]MaterialPriceSeries, error)

	SaveChemistryCosts(ctx context.Context, series []ChemistryCostSeries) error
	GetChemistryCosts(ctx context.Context) (map[string]ChemistryCostSeries, error)

	SaveAnnualCosts(ctx context.Context, costs []AnnualCost) error
}
