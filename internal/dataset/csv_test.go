package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battcast/backend/internal/contracts"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPricePanel(t *testing.T) {
	path := writeFile(t, "panel.csv",
		"date,lithium_carbonate,Graphite\n"+
			"2026-01-01,15000,7000\n"+
			"2026-02-01,,7100\n"+
			"2026-03-01,15500,\n")

	panel, err := LoadPricePanel(path)
	require.NoError(t, err)

	// Header aliases resolve to canonical keys, empty cells stay absent.
	require.Contains(t, panel, "graphite_battery")
	assert.Len(t, panel["lithium_carbonate"], 2)
	assert.Len(t, panel["graphite_battery"], 2)

	first := panel["lithium_carbonate"][0]
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), first.Month)
	assert.Equal(t, 15000.0, first.USDPerTon)
	assert.Equal(t, contracts.KindHistory, first.Kind)
}

func TestLoadPricePanel_BadHeader(t *testing.T) {
	path := writeFile(t, "panel.csv", "month,nickel\n2026-01-01,100\n")
	_, err := LoadPricePanel(path)
	assert.Error(t, err)
}

func TestLoadPriceTable_UnitConversion(t *testing.T) {
	path := writeFile(t, "table.csv",
		"date,material,price,unit\n"+
			"2026-01,nickel,10,USD/lb\n"+
			"2026-01,lithium_carbonate,15000,USD/T\n")

	rows, err := LoadPriceTable(path, 0, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "nickel", rows[0].Material)
	assert.InDelta(t, 22046.2262185, rows[0].USDPerTon, 1e-6)
	assert.InDelta(t, 15000, rows[1].USDPerTon, 1e-9)
}

func TestLoadPriceTable_BaselineSubstitution(t *testing.T) {
	path := writeFile(t, "table.csv",
		"date,material,price,unit\n"+
			"2026-01,graphite,500,USD/FURLONG\n"+
			"2026-01,unobtainium,500,USD/FURLONG\n")

	rows, err := LoadPriceTable(path, 0, zerolog.Nop())
	require.NoError(t, err)

	// Known material degrades to its baseline price; unknown one is dropped.
	require.Len(t, rows, 1)
	assert.Equal(t, "graphite_battery", rows[0].Material)
	assert.Equal(t, 7000.0, rows[0].USDPerTon)
}

func TestLoadIntensityBaseline(t *testing.T) {
	path := writeFile(t, "intensity.csv",
		"chemistry,material,tons_per_gwh\n"+
			"lfp,lithium_carbonate,50\n"+
			"nmc811,nickel,48.5\n")

	records, err := LoadIntensityBaseline(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, contracts.IntensityRecord{Chemistry: "lfp", Material: "lithium_carbonate", TonsPerGWh: 50}, records[0])
	assert.Equal(t, 48.5, records[1].TonsPerGWh)
}

func TestLoadIntensityBaseline_NormalizesChemistryCase(t *testing.T) {
	path := writeFile(t, "intensity.csv",
		"chemistry,material,tons_per_gwh\n"+
			"LFP,lithium_carbonate,50\n"+
			" NMC811 ,nickel,48.5\n")

	records, err := LoadIntensityBaseline(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "lfp", records[0].Chemistry)
	assert.Equal(t, "nmc811", records[1].Chemistry)
}

func TestLoadIntensityBaseline_RejectsNegative(t *testing.T) {
	path := writeFile(t, "intensity.csv",
		"chemistry,material,tons_per_gwh\nlfp,iron_ore,-3\n")

	_, err := LoadIntensityBaseline(path)
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2026-01-02", "2026-01", "2026/01/02", "01/2026"} {
		got, err := parseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, 2026, got.Year())
		assert.Equal(t, time.January, got.Month())
	}

	_, err := parseDate("Jan 2026")
	assert.Error(t, err)
}
