package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/battcast/backend/internal/contracts"
)

// Preset is a named scenario parameter bundle loaded from YAML. Overhead and
// FX are pointers so an omitted field can fall back to the configured
// default while an explicit zero stays zero.
type Preset struct {
	Name             string             `yaml:"name"`
	ShockPct         map[string]float64 `yaml:"shock_pct"`
	ImportDuty       map[string]float64 `yaml:"import_duty"`
	RecyclePct       map[string]float64 `yaml:"recycle_pct"`
	GlobalRecyclePct float64            `yaml:"global_recycle_pct"`
	PackOverheadPct  *float64           `yaml:"pack_overhead_pct"`
	USDToLocalFX     *float64           `yaml:"usd_to_local_fx"`
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// LoadPresets reads all presets from a YAML file.
func LoadPresets(path string) ([]Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file presetFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse presets %s: %w", path, err)
	}
	return file.Presets, nil
}

// LoadPreset returns the named preset from a YAML file.
func LoadPreset(path, name string) (Preset, error) {
	presets, err := LoadPresets(path)
	if err != nil {
		return Preset{}, err
	}
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("preset %q not found in %s", name, path)
}

// Parameters converts the preset to scenario parameters, filling omitted
// overhead/FX fields from the supplied defaults.
func (p Preset) Parameters(defaultOverheadPct, defaultFX float64) contracts.ScenarioParameters {
	overhead := defaultOverheadPct
	if p.PackOverheadPct != nil {
		overhead = *p.PackOverheadPct
	}
	fx := defaultFX
	if p.USDToLocalFX != nil {
		fx = *p.USDToLocalFX
	}
	return contracts.ScenarioParameters{
		ShockPct:         p.ShockPct,
		ImportDuty:       p.ImportDuty,
		RecyclePct:       p.RecyclePct,
		GlobalRecyclePct: p.GlobalRecyclePct,
		PackOverheadPct:  overhead,
		USDToLocalFX:     fx,
	}
}
