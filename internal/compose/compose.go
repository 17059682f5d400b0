// Package compose derives battery-chemistry cost trajectories from material
// price paths and material-intensity coefficients.
package compose

import (
	"sort"
	"time"

	"github.com/battcast/backend/internal/contracts"
)

// Costs combines material price series with effective intensities into one
// cost series per chemistry. For each (month, kind) the chemistry cost is the
// sum of price × effective tons over the basket materials that have a price
// for that month; a missing material drops its own contribution only, it
// never invalidates the chemistry total. A chemistry whose basket matches no
// priced material at all produces no series: absence, not zero, signals
// "cannot be computed".
//
// overheadPct is the pack-assembly markup and fx the USD→local rate; pass 0
// and 1 for the raw material-cost table.
func Costs(materials map[string]contracts.MaterialPriceSeries, intensities []contracts.EffectiveIntensity, chemistries []string, overheadPct, fx float64) map[string]contracts.ChemistryCostSeries {
	baskets := make(map[string][]contracts.EffectiveIntensity)
	for _, row := range intensities {
		baskets[row.Chemistry] = append(baskets[row.Chemistry], row)
	}

	out := make(map[string]contracts.ChemistryCostSeries)
	for _, chem := range chemistries {
		series, ok := composeChemistry(chem, baskets[chem], materials, overheadPct, fx)
		if ok {
			out[chem] = series
		}
	}
	return out
}

type monthKind struct {
	month time.Time
	kind  contracts.Kind
}

func composeChemistry(chem string, basket []contracts.EffectiveIntensity, materials map[string]contracts.MaterialPriceSeries, overheadPct, fx float64) (contracts.ChemistryCostSeries, bool) {
	// Direct aggregation over a sparse (month, material) lookup; sum only
	// present entries instead of building intermediate per-material frames.
	sums := make(map[monthKind]float64)
	for _, row := range basket {
		series, ok := materials[row.Material]
		if !ok {
			continue
		}
		for _, p := range series.Points {
			key := monthKind{month: p.Month, kind: p.Kind}
			sums[key] += p.USDPerTon * row.EffectiveTonsPerGWh
		}
	}
	if len(sums) == 0 {
		return contracts.ChemistryCostSeries{}, false
	}

	keys := make([]monthKind, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].month.Equal(keys[j].month) {
			return keys[i].month.Before(keys[j].month)
		}
		return keys[i].kind < keys[j].kind
	})

	series := contracts.ChemistryCostSeries{Chemistry: chem}
	for _, k := range keys {
		gwh := sums[k]
		perKWhMaterial := gwh / 1000.0
		perKWhBattery := perKWhMaterial * (1.0 + overheadPct/100.0)
		series.Points = append(series.Points, contracts.ChemistryCostPoint{
			Month:              k.month,
			Kind:               k.kind,
			USDPerGWh:          gwh,
			USDPerKWhMaterial:  perKWhMaterial,
			USDPerKWhBattery:   perKWhBattery,
			LocalPerKWhBattery: perKWhBattery * fx,
		})
	}
	return series, true
}

// Annual rolls a monthly chemistry cost table up to the mean usd_per_gwh per
// (chemistry, year, kind), ordered by chemistry, year, kind.
func Annual(series map[string]contracts.ChemistryCostSeries) []contracts.AnnualCost {
	type yearKind struct {
		chem string
		year int
		kind contracts.Kind
	}
	sums := make(map[yearKind]float64)
	counts := make(map[yearKind]int)
	for chem, s := range series {
		for _, p := range s.Points {
			key := yearKind{chem: chem, year: p.Month.Year(), kind: p.Kind}
			sums[key] += p.USDPerGWh
			counts[key]++
		}
	}

	keys := make([]yearKind, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].chem != keys[j].chem {
			return keys[i].chem < keys[j].chem
		}
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].kind < keys[j].kind
	})

	out := make([]contracts.AnnualCost, 0, len(keys))
	for _, k := range keys {
		out = append(out, contracts.AnnualCost{
			Chemistry: k.chem,
			Year:      k.year,
			Kind:      k.kind,
			USDPerGWh: sums[k] / float64(counts[k]),
		})
	}
	return out
}
