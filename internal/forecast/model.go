package forecast

import (
	"errors"
	"math"
)

// ErrModelFit reports a numerical fitting failure. It is the only error the
// fallback chain catches; anything else would hide a programming bug.
var ErrModelFit = errors.New("model fit failed")

// Model is one candidate trend model: fit on a gap-filled monthly series,
// then extrapolate a number of steps.
type Model interface {
	Name() string
	Fit(values []float64) error
	Forecast(steps int) []float64
}

// defaultChain returns the candidate models in strict fallback order:
// additive-trend exponential smoothing, linear drift, flat.
func defaultChain() []Model {
	return []Model{&holtModel{}, &driftModel{}, &flatModel{}}
}

// runChain tries each candidate in order and returns the first successful
// fit's forecast together with the model name. The final flat candidate
// cannot fail on a non-empty series, so a nil result means no data at all.
func runChain(models []Model, values []float64, steps int) ([]float64, string) {
	for _, m := range models {
		if err := m.Fit(values); err != nil {
			continue
		}
		return m.Forecast(steps), m.Name()
	}
	return nil, ""
}

// holtModel is Holt's linear method: exponential smoothing with an additive
// trend and no seasonal component (commodity prices are not assumed
// seasonal). Smoothing parameters are chosen by grid search over SSE.
type holtModel struct {
	level float64
	trend float64
}

func (m *holtModel) Name() string { return "ets_add" }

func (m *holtModel) Fit(values []float64) error {
	n := len(values)
	if n < 6 {
		return ErrModelFit
	}
	var mean, variance float64
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrModelFit
		}
		mean += v
	}
	mean /= float64(n)
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	if variance == 0 {
		// Insufficient variance for a meaningful fit; let drift take over.
		return ErrModelFit
	}

	bestSSE := math.Inf(1)
	var bestLevel, bestTrend float64
	for alpha := 0.05; alpha < 1.0; alpha += 0.05 {
		for beta := 0.05; beta < 1.0; beta += 0.05 {
			level, trend, sse := holtPass(values, alpha, beta)
			if sse < bestSSE {
				bestSSE = sse
				bestLevel, bestTrend = level, trend
			}
		}
	}
	if math.IsInf(bestSSE, 1) || math.IsNaN(bestSSE) {
		return ErrModelFit
	}

	m.level, m.trend = bestLevel, bestTrend
	return nil
}

// holtPass runs one smoothing pass and returns the final state and the
// one-step-ahead sum of squared errors.
func holtPass(values []float64, alpha, beta float64) (level, trend, sse float64) {
	level = values[0]
	trend = values[1] - values[0]
	for t := 1; t < len(values); t++ {
		fc := level + trend
		err := values[t] - fc
		sse += err * err

		next := alpha*values[t] + (1-alpha)*(level+trend)
		trend = beta*(next-level) + (1-beta)*trend
		level = next
	}
	return level, trend, sse
}

func (m *holtModel) Forecast(steps int) []float64 {
	out := make([]float64, steps)
	for i := range out {
		out[i] = m.level + m.trend*float64(i+1)
	}
	return out
}

// driftModel extrapolates with slope = (last - first) / (n - 1). With fewer
// than two points it repeats the last value.
type driftModel struct {
	last  float64
	slope float64
}

func (m *driftModel) Name() string { return "drift" }

func (m *driftModel) Fit(values []float64) error {
	if len(values) == 0 {
		return ErrModelFit
	}
	m.last = values[len(values)-1]
	if len(values) >= 2 {
		m.slope = (values[len(values)-1] - values[0]) / float64(len(values)-1)
	} else {
		m.slope = 0
	}
	if math.IsNaN(m.last) || math.IsNaN(m.slope) || math.IsInf(m.slope, 0) {
		return ErrModelFit
	}
	return nil
}

func (m *driftModel) Forecast(steps int) []float64 {
	out := make([]float64, steps)
	for i := range out {
		out[i] = m.last + m.slope*float64(i+1)
	}
	return out
}

// flatModel repeats the last known value. It is the terminal fallback and
// also serves the degenerate short-history case directly.
type flatModel struct {
	last float64
}

func (m *flatModel) Name() string { return "flat" }

func (m *flatModel) Fit(values []float64) error {
	if len(values) == 0 {
		return ErrModelFit
	}
	m.last = values[len(values)-1]
	return nil
}

func (m *flatModel) Forecast(steps int) []float64 {
	out := make([]float64, steps)
	for i := range out {
		out[i] = m.last
	}
	return out
}
