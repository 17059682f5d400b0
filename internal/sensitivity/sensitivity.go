// Package sensitivity ranks the marginal cost impact of a fixed ±10% price
// perturbation per material on a chemistry's battery cost.
package sensitivity

import (
	"math"
	"sort"
	"time"

	"github.com/battcast/backend/internal/contracts"
)

// shockFraction is the fixed symmetric perturbation applied per material.
const shockFraction = 0.10

// Input is one sensitivity request: a chemistry's basket evaluated at a
// single month against scenario-adjusted prices.
type Input struct {
	Chemistry       string
	Month           time.Time
	Basket          []contracts.EffectiveIntensity
	Prices          map[string]contracts.MaterialPriceSeries
	ImportDuty      map[string]float64
	PackOverheadPct float64
}

// Analyze computes per-material impacts for the input month. Materials
// without a price at exactly that month are skipped, not imputed. Results
// are sorted ascending by impact; stacked tornado rendering depends on that
// order, so it is part of this function's contract.
func Analyze(in Input) []contracts.SensitivityResult {
	month := contracts.MonthStart(in.Month)
	overhead := 1.0 + in.PackOverheadPct/100.0

	var out []contracts.SensitivityResult
	for _, row := range in.Basket {
		if row.Chemistry != in.Chemistry {
			continue
		}
		series, ok := in.Prices[row.Material]
		if !ok {
			continue
		}
		point, ok := series.PriceAt(month)
		if !ok {
			continue
		}

		p0 := point.USDPerTon + in.ImportDuty[row.Material]
		deltaUp := (p0*(1+shockFraction) - p0) * row.EffectiveTonsPerGWh / 1000.0 * overhead
		deltaDown := (p0*(1-shockFraction) - p0) * row.EffectiveTonsPerGWh / 1000.0 * overhead

		out = append(out, contracts.SensitivityResult{
			Material:              row.Material,
			ContributionUSDPerKWh: p0 * row.EffectiveTonsPerGWh / 1000.0 * overhead,
			EffectiveTonsPerGWh:   row.EffectiveTonsPerGWh,
			DeltaUp:               deltaUp,
			DeltaDown:             deltaDown,
			Impact:                math.Max(math.Abs(deltaUp), math.Abs(deltaDown)),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Impact < out[j].Impact })
	return out
}
