// Package scenario applies user-parameterized economic transformations to
// base material price and chemistry cost data.
package scenario

import (
	"github.com/rs/zerolog"

	"github.com/battcast/backend/internal/compose"
	"github.com/battcast/backend/internal/contracts"
)

// Result holds one scenario evaluation: shocked material price paths and the
// derived chemistry cost trajectories.
type Result struct {
	Materials   map[string]contracts.MaterialPriceSeries `json:"materials"`
	Chemistries map[string]contracts.ChemistryCostSeries `json:"chemistries"`
}

// Engine evaluates scenarios. It is stateless: identical inputs always
// produce identical outputs, and the base data is never mutated, so
// concurrent evaluation of different parameter sets needs no locking.
type Engine struct {
	log zerolog.Logger
}

func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("component", "scenario.engine").Logger()}
}

// Apply transforms base prices and intensities under the scenario and
// recomposes chemistry costs. The transformation order is fixed:
//
//	shocked = base × (1 + shock/100) + duty
//	effective tons = tons × (1 − recycle/100)
//
// Duty is a fixed additive adjustment applied after the shock multiplier and
// is never itself shocked. Composition then runs on the shocked prices and
// effective intensities, followed by the pack-overhead and currency passes.
// An empty selection yields an empty Result, which is a valid state.
func (e *Engine) Apply(base map[string]contracts.MaterialPriceSeries, intensities []contracts.IntensityRecord, chemistries []string, params contracts.ScenarioParameters) Result {
	params = params.Canonicalize()

	shocked := ShockPrices(base, params)
	effective := EffectiveIntensities(intensities, params)
	costs := compose.Costs(shocked, effective, chemistries, params.PackOverheadPct, params.USDToLocalFX)

	e.log.Debug().
		Int("materials", len(shocked)).
		Int("chemistries", len(costs)).
		Str("fingerprint", params.Fingerprint()).
		Msg("scenario applied")

	return Result{Materials: shocked, Chemistries: costs}
}

// ShockPrices applies the per-material shock multiplier and import duty to
// every base series. Duty is added after the multiplier and is never itself
// shocked. The base map is never mutated. The caller must pass canonicalized
// parameters.
func ShockPrices(base map[string]contracts.MaterialPriceSeries, params contracts.ScenarioParameters) map[string]contracts.MaterialPriceSeries {
	shocked := make(map[string]contracts.MaterialPriceSeries, len(base))
	for material, series := range base {
		mult := 1.0 + params.ShockFor(material)/100.0
		duty := params.DutyFor(material)

		s := series.Clone()
		for i := range s.Points {
			s.Points[i].USDPerTon = s.Points[i].USDPerTon*mult + duty
		}
		shocked[material] = s
	}
	return shocked
}

// EffectiveIntensities resolves the intensity baseline under the scenario's
// recycling rates. Material and chemistry names are resolved to canonical
// keys; a per-material recycling override beats the global rate. The caller
// must pass canonicalized parameters.
func EffectiveIntensities(records []contracts.IntensityRecord, params contracts.ScenarioParameters) []contracts.EffectiveIntensity {
	out := make([]contracts.EffectiveIntensity, 0, len(records))
	for _, r := range records {
		key := contracts.CanonicalMaterial(r.Material)
		recycle := params.RecycleFor(key)
		out = append(out, contracts.EffectiveIntensity{
			Chemistry:           contracts.CanonicalChemistry(r.Chemistry),
			Material:            key,
			TonsPerGWh:          r.TonsPerGWh,
			RecyclePct:          recycle,
			EffectiveTonsPerGWh: r.TonsPerGWh * (1.0 - recycle/100.0),
		})
	}
	return out
}
