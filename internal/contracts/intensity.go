package contracts

import "strings"

// IntensityRecord is one row of the intensity baseline table: tons of a raw
// material required per GWh of battery capacity for a chemistry. The table is
// externally supplied and read-only to the core.
type IntensityRecord struct {
	Chemistry  string  `json:"chemistry"`
	Material   string  `json:"material"`
	TonsPerGWh float64 `json:"tons_per_gwh"`
}

// EffectiveIntensity is an IntensityRecord after applying a recycling rate.
// Recomputed per scenario, never persisted.
type EffectiveIntensity struct {
	Chemistry           string  `json:"chemistry"`
	Material            string  `json:"material"` // canonical key
	TonsPerGWh          float64 `json:"tons_per_gwh"`
	RecyclePct          float64 `json:"recycle_pct"`
	EffectiveTonsPerGWh float64 `json:"effective_tons_per_gwh"`
}

// materialAliases maps normalized intensity-table names to the canonical
// price-table keys. This is the single alias table; no component may carry
// its own copy.
var materialAliases = map[string]string{
	"manganese": "manganese_sulfate",
	"graphite":  "graphite_battery",
}

// CanonicalMaterial resolves a raw material identifier (intensity-table name,
// scenario key, price column) to its canonical price-table key.
func CanonicalMaterial(name string) string {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	if key, ok := materialAliases[norm]; ok {
		return key
	}
	return norm
}

// CanonicalChemistry normalizes a chemistry identifier. Ingest and lookups
// both go through here so a row stored as "LFP" and a request for "lfp"
// always meet on the same key.
func CanonicalChemistry(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
