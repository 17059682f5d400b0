package contracts

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ScenarioParameters is one immutable bundle of scenario assumptions.
// It is supplied per computation and never mutated mid-computation; all
// scenario state travels through this struct, never through globals.
type ScenarioParameters struct {
	// ShockPct maps material -> percentage price shock. The UI bounds this
	// to [-50,50] but the core accepts any finite percentage.
	ShockPct map[string]float64 `json:"shock_pct"`

	// ImportDuty maps material -> fixed duty in USD/ton, added after the
	// shock multiplier and never itself shocked.
	ImportDuty map[string]float64 `json:"import_duty"`

	// RecyclePct maps material -> recycling percentage override [0,100].
	// Materials without an override use GlobalRecyclePct.
	RecyclePct       map[string]float64 `json:"recycle_pct"`
	GlobalRecyclePct float64            `json:"global_recycle_pct"`

	// PackOverheadPct converts cell-level material cost to pack cost.
	PackOverheadPct float64 `json:"pack_overhead_pct"`

	// USDToLocalFX converts USD/kWh to local currency per kWh.
	USDToLocalFX float64 `json:"usd_to_local_fx"`
}

// Canonicalize returns a copy with every map key resolved through the
// canonical material alias table. Run once at the scenario boundary so the
// engines only ever see canonical keys.
func (p ScenarioParameters) Canonicalize() ScenarioParameters {
	out := p
	out.ShockPct = canonicalizeKeys(p.ShockPct)
	out.ImportDuty = canonicalizeKeys(p.ImportDuty)
	out.RecyclePct = canonicalizeKeys(p.RecyclePct)
	return out
}

func canonicalizeKeys(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[CanonicalMaterial(k)] = v
	}
	return out
}

// ShockFor returns the shock percentage for a canonical material key.
func (p ScenarioParameters) ShockFor(material string) float64 {
	return p.ShockPct[material]
}

// DutyFor returns the import duty for a canonical material key.
func (p ScenarioParameters) DutyFor(material string) float64 {
	return p.ImportDuty[material]
}

// RecycleFor resolves the recycling rate for a material: per-material
// override first, global default otherwise.
func (p ScenarioParameters) RecycleFor(material string) float64 {
	if v, ok := p.RecyclePct[material]; ok {
		return v
	}
	return p.GlobalRecyclePct
}

// Fingerprint returns a deterministic hash of the parameter set, usable as a
// cache key. Map iteration order does not affect the result.
func (p ScenarioParameters) Fingerprint() string {
	var b strings.Builder
	writeSorted := func(label string, m map[string]float64) {
		fmt.Fprintf(&b, "%s:", label)
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s=%g;", k, m[k])
		}
	}
	writeSorted("shock", p.ShockPct)
	writeSorted("duty", p.ImportDuty)
	writeSorted("recycle", p.RecyclePct)
	fmt.Fprintf(&b, "global=%g;overhead=%g;fx=%g", p.GlobalRecyclePct, p.PackOverheadPct, p.USDToLocalFX)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}

// ChemistryCostPoint is one month of a chemistry cost trajectory.
type ChemistryCostPoint struct {
	Month              time.Time `json:"date"`
	Kind               Kind      `json:"kind"`
	USDPerGWh          float64   `json:"usd_per_gwh"`
	USDPerKWhMaterial  float64   `json:"usd_per_kwh_material"`
	USDPerKWhBattery   float64   `json:"usd_per_kwh_battery"`
	LocalPerKWhBattery float64   `json:"local_per_kwh_battery"`
}

// ChemistryCostSeries is the derived cost path of one chemistry. Always
// rebuilt from material prices and intensities, never mutated in place.
type ChemistryCostSeries struct {
	Chemistry string               `json:"chemistry"`
	Points    []ChemistryCostPoint `json:"points"`
}

// AnnualCost is the yearly roll-up of a chemistry cost series: mean
// usd_per_gwh per (chemistry, year, kind).
type AnnualCost struct {
	Chemistry string  `json:"chemistry"`
	Year      int     `json:"year"`
	Kind      Kind    `json:"kind"`
	USDPerGWh float64 `json:"usd_per_gwh"`
}
