package forecast

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/battcast/backend/internal/contracts"
)

// Builder fits a trend model per material and extrapolates the forecast
// horizon. It carries no state across calls; every invocation is a pure
// function of its inputs plus the fixed window/horizon settings.
type Builder struct {
	rollingWindow int
	horizon       int
	now           time.Time
	log           zerolog.Logger
}

// NewBuilder creates a forecast builder. rollingWindow and horizon are in
// months; now anchors the current calendar month.
func NewBuilder(rollingWindow, horizon int, now time.Time, log zerolog.Logger) *Builder {
	return &Builder{
		rollingWindow: rollingWindow,
		horizon:       horizon,
		now:           now,
		log:           log.With().Str("component", "forecast.builder").Logger(),
	}
}

// BuildAll forecasts every material in the panel. A single material's
// fitting failure degrades to its fallback model and the batch continues;
// materials with no usable history are skipped.
func (b *Builder) BuildAll(ctx context.Context, panel map[string][]contracts.PricePoint) map[string]contracts.MaterialPriceSeries {
	materials := make([]string, 0, len(panel))
	for m := range panel {
		materials = append(materials, m)
	}
	sort.Strings(materials)

	out := make(map[string]contracts.MaterialPriceSeries, len(materials))
	for _, m := range materials {
		select {
		case <-ctx.Done():
			b.log.Warn().Msg("context cancelled during forecast build")
			return out
		default:
		}

		series, ok := b.BuildMaterial(m, panel[m])
		if !ok {
			b.log.Warn().Str("material", m).Msg("no usable history, material skipped")
			continue
		}
		out[m] = series
	}

	b.log.Info().
		Int("materials", len(materials)).
		Int("built", len(out)).
		Msg("forecast build completed")

	return out
}

// BuildMaterial produces the full history+forecast series for one material.
// The second return is false when the history holds no usable point at or
// before the current month.
func (b *Builder) BuildMaterial(material string, history []contracts.PricePoint) (contracts.MaterialPriceSeries, bool) {
	current := contracts.MonthStart(b.now)

	// Collapse raw rows onto month starts, last observation wins. Rows dated
	// after the current calendar month are discarded so the model is never
	// trained on not-yet-realized feed rows.
	byMonth := make(map[time.Time]float64)
	for _, p := range history {
		m := contracts.MonthStart(p.Month)
		if m.After(current) {
			continue
		}
		if math.IsNaN(p.USDPerTon) || math.IsInf(p.USDPerTon, 0) {
			continue
		}
		byMonth[m] = p.USDPerTon
	}
	if len(byMonth) == 0 {
		return contracts.MaterialPriceSeries{}, false
	}

	first, last := monthRange(byMonth)

	// Resample to exact monthly cadence; absent months become gaps.
	months := make([]time.Time, 0, contracts.MonthsBetween(first, last)+1)
	values := make([]float64, 0, cap(months))
	for m := first; !m.After(last); m = contracts.AddMonths(m, 1) {
		months = append(months, m)
		if v, ok := byMonth[m]; ok {
			values = append(values, v)
		} else {
			values = append(values, math.NaN())
		}
	}

	// Rolling window bounds model sensitivity to stale regimes.
	if len(byMonth) > b.rollingWindow && len(months) > b.rollingWindow {
		cut := len(months) - b.rollingWindow
		months = months[cut:]
		values = values[cut:]
	}

	fillGaps(values)

	series := contracts.MaterialPriceSeries{Material: material}
	for i, m := range months {
		series.Points = append(series.Points, contracts.PricePoint{
			Month:     m,
			USDPerTon: values[i],
			Kind:      contracts.KindHistory,
		})
	}

	// Forecast from the month after the gap-filled history through
	// current month + horizon. History never extends past the current
	// month, so the joint series stays contiguous.
	start := contracts.AddMonths(months[len(months)-1], 1)
	end := contracts.AddMonths(current, b.horizon)
	steps := contracts.MonthsBetween(start, end) + 1
	if steps <= 0 {
		return series, true
	}

	var forecast []float64
	var model string
	if len(values) < 6 {
		flat := &flatModel{}
		_ = flat.Fit(values)
		forecast, model = flat.Forecast(steps), flat.Name()
	} else {
		forecast, model = runChain(defaultChain(), values, steps)
	}

	for i, v := range forecast {
		series.Points = append(series.Points, contracts.PricePoint{
			Month:     contracts.AddMonths(start, i),
			USDPerTon: v,
			Kind:      contracts.KindForecast,
		})
	}

	b.log.Debug().
		Str("material", material).
		Str("model", model).
		Int("history_months", len(months)).
		Int("forecast_months", steps).
		Msg("material forecast built")

	return series, true
}

func monthRange(byMonth map[time.Time]float64) (first, last time.Time) {
	for m := range byMonth {
		if first.IsZero() || m.Before(first) {
			first = m
		}
		if last.IsZero() || m.After(last) {
			last = m
		}
	}
	return first, last
}

// fillGaps fills NaN holes in place: interior gaps by linear interpolation
// between the surrounding known values (time-weighted; the grid is uniform
// monthly), leading and trailing gaps by carrying the nearest known value.
func fillGaps(values []float64) {
	n := len(values)
	i := 0
	for i < n {
		if !math.IsNaN(values[i]) {
			i++
			continue
		}
		// Gap [i, j).
		j := i
		for j < n && math.IsNaN(values[j]) {
			j++
		}
		switch {
		case i == 0 && j == n:
			// All missing; nothing to fill from.
			return
		case i == 0:
			// Leading gap: carry the first known value backward.
			for k := i; k < j; k++ {
				values[k] = values[j]
			}
		case j == n:
			// Trailing gap: carry the last known value forward.
			for k := i; k < j; k++ {
				values[k] = values[i-1]
			}
		default:
			lo, hi := values[i-1], values[j]
			span := float64(j - (i - 1))
			for k := i; k < j; k++ {
				frac := float64(k-(i-1)) / span
				values[k] = lo + (hi-lo)*frac
			}
		}
		i = j
	}
}
