package compose

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battcast/backend/internal/contracts"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func series(material string, points ...contracts.PricePoint) contracts.MaterialPriceSeries {
	return contracts.MaterialPriceSeries{Material: material, Points: points}
}

func intensity(chem, material string, effTons float64) contracts.EffectiveIntensity {
	return contracts.EffectiveIntensity{
		Chemistry:           chem,
		Material:            material,
		TonsPerGWh:          effTons,
		EffectiveTonsPerGWh: effTons,
	}
}

func TestCosts_EndToEnd(t *testing.T) {
	materials := map[string]contracts.MaterialPriceSeries{
		"lithium_carbonate": series("lithium_carbonate", contracts.PricePoint{
			Month: month(2026, time.January), USDPerTon: 12000, Kind: contracts.KindHistory,
		}),
	}
	basket := []contracts.EffectiveIntensity{intensity("lfp", "lithium_carbonate", 50)}

	out := Costs(materials, basket, []string{"lfp"}, 25, 83)
	require.Contains(t, out, "lfp")
	require.Len(t, out["lfp"].Points, 1)

	p := out["lfp"].Points[0]
	assert.InDelta(t, 600000, p.USDPerGWh, 1e-9)
	assert.InDelta(t, 600, p.USDPerKWhMaterial, 1e-9)
	assert.InDelta(t, 750, p.USDPerKWhBattery, 1e-9)
	assert.InDelta(t, 62250, p.LocalPerKWhBattery, 1e-9)
}

func TestCosts_MissingMaterialDropsOnlyItsContribution(t *testing.T) {
	materials := map[string]contracts.MaterialPriceSeries{
		"nickel": series("nickel", contracts.PricePoint{
			Month: month(2026, time.March), USDPerTon: 20000, Kind: contracts.KindHistory,
		}),
	}
	basket := []contracts.EffectiveIntensity{
		intensity("nmc811", "nickel", 10),
		intensity("nmc811", "cobalt", 2), // no price series
	}

	out := Costs(materials, basket, []string{"nmc811"}, 0, 1)
	require.Contains(t, out, "nmc811")
	require.Len(t, out["nmc811"].Points, 1)
	assert.InDelta(t, 200000, out["nmc811"].Points[0].USDPerGWh, 1e-9)
}

func TestCosts_UnmatchedChemistryAbsent(t *testing.T) {
	materials := map[string]contracts.MaterialPriceSeries{
		"nickel": series("nickel", contracts.PricePoint{
			Month: month(2026, time.March), USDPerTon: 20000, Kind: contracts.KindHistory,
		}),
	}
	basket := []contracts.EffectiveIntensity{intensity("lfp", "phosphate_rock", 5)}

	out := Costs(materials, basket, []string{"lfp", "sodium_ion"}, 0, 1)

	// No priced basket material means no series at all: absence signals
	// "cannot be computed", never a zero-cost row.
	assert.NotContains(t, out, "lfp")
	assert.NotContains(t, out, "sodium_ion")
}

func TestCosts_KindsKeptSeparate(t *testing.T) {
	materials := map[string]contracts.MaterialPriceSeries{
		"cobalt": series("cobalt",
			contracts.PricePoint{Month: month(2026, time.May), USDPerTon: 30000, Kind: contracts.KindHistory},
			contracts.PricePoint{Month: month(2026, time.June), USDPerTon: 31000, Kind: contracts.KindForecast},
		),
	}
	basket := []contracts.EffectiveIntensity{intensity("nmc811", "cobalt", 2)}

	out := Costs(materials, basket, []string{"nmc811"}, 0, 1)
	points := out["nmc811"].Points
	require.Len(t, points, 2)
	assert.Equal(t, contracts.KindHistory, points[0].Kind)
	assert.Equal(t, contracts.KindForecast, points[1].Kind)
}

func TestAnnual(t *testing.T) {
	in := map[string]contracts.ChemistryCostSeries{
		"lfp": {
			Chemistry: "lfp",
			Points: []contracts.ChemistryCostPoint{
				{Month: month(2026, time.January), Kind: contracts.KindHistory, USDPerGWh: 100},
				{Month: month(2026, time.February), Kind: contracts.KindHistory, USDPerGWh: 200},
				{Month: month(2026, time.March), Kind: contracts.KindForecast, USDPerGWh: 400},
				{Month: month(2027, time.January), Kind: contracts.KindForecast, USDPerGWh: 600},
			},
		},
	}

	out := Annual(in)
	require.Len(t, out, 3)

	assert.Equal(t, contracts.AnnualCost{Chemistry: "lfp", Year: 2026, Kind: contracts.KindForecast, USDPerGWh: 400}, out[0])
	assert.Equal(t, contracts.AnnualCost{Chemistry: "lfp", Year: 2026, Kind: contracts.KindHistory, USDPerGWh: 150}, out[1])
	assert.Equal(t, contracts.AnnualCost{Chemistry: "lfp", Year: 2027, Kind: contracts.KindForecast, USDPerGWh: 600}, out[2])
}
