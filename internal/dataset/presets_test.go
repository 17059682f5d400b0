package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presetYAML = `presets:
  - name: tariff_war
    shock_pct:
      lithium_carbonate: 15
    import_duty:
      nickel: 500
    global_recycle_pct: 10
    pack_overhead_pct: 30
  - name: cheap_pack
    pack_overhead_pct: 0
`

func TestLoadPreset(t *testing.T) {
	path := writeFile(t, "presets.yaml", presetYAML)

	p, err := LoadPreset(path, "tariff_war")
	require.NoError(t, err)
	assert.Equal(t, 15.0, p.ShockPct["lithium_carbonate"])
	assert.Equal(t, 500.0, p.ImportDuty["nickel"])

	_, err = LoadPreset(path, "nonexistent")
	assert.Error(t, err)
}

func TestPreset_Parameters_Defaults(t *testing.T) {
	path := writeFile(t, "presets.yaml", presetYAML)

	tariff, err := LoadPreset(path, "tariff_war")
	require.NoError(t, err)
	cheap, err := LoadPreset(path, "cheap_pack")
	require.NoError(t, err)

	params := tariff.Parameters(25, 83)
	assert.Equal(t, 30.0, params.PackOverheadPct)
	assert.Equal(t, 83.0, params.USDToLocalFX) // omitted, default applies
	assert.Equal(t, 10.0, params.GlobalRecyclePct)

	// An explicit zero in the file must not fall back to the default.
	params = cheap.Parameters(25, 83)
	assert.Equal(t, 0.0, params.PackOverheadPct)
}
