package sensitivity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battcast/backend/internal/contracts"
)

var may = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func priced(material string, usdPerTon float64) contracts.MaterialPriceSeries {
	return contracts.MaterialPriceSeries{
		Material: material,
		Points: []contracts.PricePoint{
			{Month: may, USDPerTon: usdPerTon, Kind: contracts.KindForecast},
		},
	}
}

func eff(chem, material string, effTons float64) contracts.EffectiveIntensity {
	return contracts.EffectiveIntensity{
		Chemistry:           chem,
		Material:            material,
		EffectiveTonsPerGWh: effTons,
	}
}

func TestAnalyze_SymmetricDisplacement(t *testing.T) {
	out := Analyze(Input{
		Chemistry: "lfp",
		Month:     may,
		Basket:    []contracts.EffectiveIntensity{eff("lfp", "lithium_carbonate", 50)},
		Prices: map[string]contracts.MaterialPriceSeries{
			"lithium_carbonate": priced("lithium_carbonate", 12000),
		},
		PackOverheadPct: 25,
	})
	require.Len(t, out, 1)

	r := out[0]
	// +10% on 12000 USD/ton × 50 t/GWh / 1000 × 1.25 overhead.
	assert.InDelta(t, 75, r.DeltaUp, 1e-9)
	assert.InDelta(t, -75, r.DeltaDown, 1e-9)
	assert.InDelta(t, 75, r.Impact, 1e-9)
	assert.Greater(t, r.DeltaUp, 0.0)
	assert.Less(t, r.DeltaDown, 0.0)
	assert.InDelta(t, 750, r.ContributionUSDPerKWh, 1e-9)
}

func TestAnalyze_SortedAscendingByImpact(t *testing.T) {
	out := Analyze(Input{
		Chemistry: "nmc811",
		Month:     may,
		Basket: []contracts.EffectiveIntensity{
			eff("nmc811", "nickel", 40),
			eff("nmc811", "cobalt", 2),
			eff("nmc811", "graphite_battery", 60),
		},
		Prices: map[string]contracts.MaterialPriceSeries{
			"nickel":           priced("nickel", 20000),
			"cobalt":           priced("cobalt", 35000),
			"graphite_battery": priced("graphite_battery", 7000),
		},
	})
	require.Len(t, out, 3)

	for i := 1; i < len(out); i++ {
		assert.LessOrEqual(t, out[i-1].Impact, out[i].Impact)
	}
	// cobalt (70k) < graphite (420k) < nickel (800k) by price×tons.
	assert.Equal(t, "cobalt", out[0].Material)
	assert.Equal(t, "graphite_battery", out[1].Material)
	assert.Equal(t, "nickel", out[2].Material)
}

func TestAnalyze_SkipsUnpricedAndForeignRows(t *testing.T) {
	out := Analyze(Input{
		Chemistry: "lfp",
		Month:     may,
		Basket: []contracts.EffectiveIntensity{
			eff("lfp", "phosphate_rock", 5), // no series
			eff("lfp", "iron_ore", 30),      // series, wrong month
			eff("nmc811", "nickel", 40),     // different chemistry
			eff("lfp", "lithium_carbonate", 50),
		},
		Prices: map[string]contracts.MaterialPriceSeries{
			"iron_ore": {
				Material: "iron_ore",
				Points: []contracts.PricePoint{
					{Month: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), USDPerTon: 100, Kind: contracts.KindForecast},
				},
			},
			"nickel":            priced("nickel", 20000),
			"lithium_carbonate": priced("lithium_carbonate", 12000),
		},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "lithium_carbonate", out[0].Material)
}

func TestAnalyze_DutyEntersBasePrice(t *testing.T) {
	input := Input{
		Chemistry: "lfp",
		Month:     may,
		Basket:    []contracts.EffectiveIntensity{eff("lfp", "lithium_carbonate", 50)},
		Prices: map[string]contracts.MaterialPriceSeries{
			"lithium_carbonate": priced("lithium_carbonate", 12000),
		},
		ImportDuty: map[string]float64{"lithium_carbonate": 1000},
	}

	out := Analyze(input)
	require.Len(t, out, 1)

	// p0 = 12000 + 1000, delta = 1300 × 50 / 1000.
	assert.InDelta(t, 65, out[0].DeltaUp, 1e-9)
}
