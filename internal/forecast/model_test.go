package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriftModel(t *testing.T) {
	m := &driftModel{}
	require.NoError(t, m.Fit([]float64{100, 110, 120}))

	got := m.Forecast(3)
	require.Len(t, got, 3)
	assert.InDelta(t, 130, got[0], 1e-9)
	assert.InDelta(t, 140, got[1], 1e-9)
	assert.InDelta(t, 150, got[2], 1e-9)
}

func TestDriftModel_SinglePoint(t *testing.T) {
	m := &driftModel{}
	require.NoError(t, m.Fit([]float64{42}))

	got := m.Forecast(4)
	for _, v := range got {
		assert.Equal(t, 42.0, v)
	}
}

func TestFlatModel(t *testing.T) {
	m := &flatModel{}
	require.NoError(t, m.Fit([]float64{5, 9, 7}))

	for _, v := range m.Forecast(5) {
		assert.Equal(t, 7.0, v)
	}

	assert.ErrorIs(t, (&flatModel{}).Fit(nil), ErrModelFit)
}

func TestHoltModel_RejectsShortSeries(t *testing.T) {
	m := &holtModel{}
	assert.ErrorIs(t, m.Fit([]float64{100, 110, 120}), ErrModelFit)
}

func TestHoltModel_RejectsConstantSeries(t *testing.T) {
	m := &holtModel{}
	assert.ErrorIs(t, m.Fit([]float64{50, 50, 50, 50, 50, 50, 50}), ErrModelFit)
}

func TestHoltModel_LinearSeries(t *testing.T) {
	// On perfectly linear data every (alpha, beta) pair tracks the trend
	// exactly, so the forecast continues the line.
	values := make([]float64, 12)
	for i := range values {
		values[i] = 100 + 10*float64(i)
	}

	m := &holtModel{}
	require.NoError(t, m.Fit(values))

	got := m.Forecast(3)
	last := values[len(values)-1]
	assert.InDelta(t, last+10, got[0], 1e-6)
	assert.InDelta(t, last+20, got[1], 1e-6)
	assert.InDelta(t, last+30, got[2], 1e-6)
}

func TestRunChain_FallsBackInOrder(t *testing.T) {
	// Three points: too short for smoothing, so drift wins.
	forecast, model := runChain(defaultChain(), []float64{100, 110, 120}, 2)
	assert.Equal(t, "drift", model)
	require.Len(t, forecast, 2)
	assert.InDelta(t, 130, forecast[0], 1e-9)
	assert.InDelta(t, 140, forecast[1], 1e-9)
}

func TestRunChain_LongSeriesUsesSmoothing(t *testing.T) {
	values := make([]float64, 24)
	for i := range values {
		values[i] = 4000 + 25*float64(i)
	}
	_, model := runChain(defaultChain(), values, 6)
	assert.Equal(t, "ets_add", model)
}

func TestRunChain_EmptySeries(t *testing.T) {
	forecast, model := runChain(defaultChain(), nil, 3)
	assert.Nil(t, forecast)
	assert.Equal(t, "", model)
}
