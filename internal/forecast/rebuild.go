package forecast

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/battcast/backend/internal/compose"
	"github.com/battcast/backend/internal/contracts"
	"github.com/battcast/backend/internal/scenario"
)

// RebuildDefaults are the baseline assumptions applied when no scenario is
// in play: the stored cost tables are the zero-shock view of the world.
type RebuildDefaults struct {
	RecyclePct      float64
	PackOverheadPct float64
	USDToLocalFX    float64
}

// Rebuilder runs the full rebuild: panel -> material forecasts -> baseline
// chemistry costs -> annual roll-up, persisting each stage. The CLI build
// command and the cron job share this path.
type Rebuilder struct {
	prices      contracts.PriceRepository
	intensities contracts.IntensityRepository
	outputs     contracts.ForecastRepository
	builder     *Builder
	defaults    RebuildDefaults
	log         zerolog.Logger
}

// NewRebuilder creates a rebuilder.
func NewRebuilder(
	prices contracts.PriceRepository,
	intensities contracts.IntensityRepository,
	outputs contracts.ForecastRepository,
	builder *Builder,
	defaults RebuildDefaults,
	log zerolog.Logger,
) *Rebuilder {
	return &Rebuilder{
		prices:      prices,
		intensities: intensities,
		outputs:     outputs,
		builder:     builder,
		defaults:    defaults,
		log:         log.With().Str("component", "forecast.rebuilder").Logger(),
	}
}

// Run executes one full rebuild.
func (r *Rebuilder) Run(ctx context.Context) error {
	panel, err := r.prices.GetPanel(ctx)
	if err != nil {
		return fmt.Errorf("load price panel: %w", err)
	}
	if len(panel) == 0 {
		return fmt.Errorf("price panel is empty, import prices first")
	}

	built := r.builder.BuildAll(ctx, panel)

	series := make([]contracts.MaterialPriceSeries, 0, len(built))
	for _, s := range built {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("invalid series for %s: %w", s.Material, err)
		}
		series = append(series, s)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Material < series[j].Material })

	if err := r.outputs.SaveMaterialSeries(ctx, series); err != nil {
		return fmt.Errorf("save material forecasts: %w", err)
	}

	records, err := r.intensities.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load intensity baseline: %w", err)
	}
	if len(records) == 0 {
		r.log.Warn().Msg("intensity baseline is empty, skipping chemistry costs")
		return nil
	}

	params := contracts.ScenarioParameters{
		GlobalRecyclePct: r.defaults.RecyclePct,
		PackOverheadPct:  r.defaults.PackOverheadPct,
		USDToLocalFX:     r.defaults.USDToLocalFX,
	}

	chemistries := make([]string, 0)
	seen := make(map[string]bool)
	for _, rec := range records {
		c := contracts.CanonicalChemistry(rec.Chemistry)
		if !seen[c] {
			seen[c] = true
			chemistries = append(chemistries, c)
		}
	}
	sort.Strings(chemistries)

	costs := compose.Costs(built, scenario.EffectiveIntensities(records, params), chemistries, params.PackOverheadPct, params.USDToLocalFX)

	costSeries := make([]contracts.ChemistryCostSeries, 0, len(costs))
	for _, s := range costs {
		costSeries = append(costSeries, s)
	}
	sort.Slice(costSeries, func(i, j int) bool { return costSeries[i].Chemistry < costSeries[j].Chemistry })

	if err := r.outputs.SaveChemistryCosts(ctx, costSeries); err != nil {
		return fmt.Errorf("save chemistry costs: %w", err)
	}

	if err := r.outputs.SaveAnnualCosts(ctx, compose.Annual(costs)); err != nil {
		return fmt.Errorf("save annual costs: %w", err)
	}

	r.log.Info().
		Int("materials", len(series)).
		Int("chemistries", len(costSeries)).
		Msg("rebuild completed")

	return nil
}
