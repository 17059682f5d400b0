package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 60, cfg.Forecast.RollingMonths)
	assert.Equal(t, 36, cfg.Forecast.ForecastMonths)
	assert.Equal(t, 0.0, cfg.Scenario.RecyclePct)
	assert.Equal(t, 25.0, cfg.Scenario.PackOverheadPct)
	assert.Equal(t, 83.0, cfg.Scenario.USDToLocalFX)
	assert.False(t, cfg.Redis.Enabled)
	assert.Empty(t, cfg.RebuildSchedule)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ROLLING_MONTHS", "24")
	t.Setenv("FORECAST_MONTHS", "12")
	t.Setenv("DEFAULT_PACK_OVERHEAD_PCT", "30")
	t.Setenv("REBUILD_SCHEDULE", "0 3 * * *")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24, cfg.Forecast.RollingMonths)
	assert.Equal(t, 12, cfg.Forecast.ForecastMonths)
	assert.Equal(t, 30.0, cfg.Scenario.PackOverheadPct)
	assert.Equal(t, "0 3 * * *", cfg.RebuildSchedule)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "rolling window too small", key: "ROLLING_MONTHS", value: "5"},
		{name: "rolling window too large", key: "ROLLING_MONTHS", value: "200"},
		{name: "horizon too small", key: "FORECAST_MONTHS", value: "3"},
		{name: "recycle over 100", key: "DEFAULT_RECYCLE_PCT", value: "120"},
		{name: "negative overhead", key: "DEFAULT_PACK_OVERHEAD_PCT", value: "-5"},
		{name: "zero fx", key: "DEFAULT_USD_FX", value: "0"},
		{name: "bad env", key: "ENV", value: "circus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
