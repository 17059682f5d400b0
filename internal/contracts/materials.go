package contracts

import (
	"fmt"
	"time"
)

// Kind tags a monthly point as observed data or model-extrapolated data.
// The two kinds never share a month within one series.
type Kind string

const (
	KindHistory  Kind = "history"
	KindForecast Kind = "forecast"
)

// PricePoint is one month of a material price series, in USD per metric ton.
type PricePoint struct {
	Month     time.Time `json:"date"`
	USDPerTon float64   `json:"price_usd_per_ton"`
	Kind      Kind      `json:"kind"`
}

// MaterialPriceSeries is the full monthly price path of one material:
// gap-filled history followed by model forecast. It is written once per
// rebuild and consumed read-only downstream.
type MaterialPriceSeries struct {
	Material string       `json:"material"`
	Points   []PricePoint `json:"points"`
}

// Validate checks the series invariants: months unique, strictly increasing,
// first-of-month aligned, contiguous, and history never after forecast.
func (s *MaterialPriceSeries) Validate() error {
	seenForecast := false
	for i, p := range s.Points {
		if !p.Month.Equal(MonthStart(p.Month)) {
			return fmt.Errorf("series %s: point %d not first-of-month: %s", s.Material, i, p.Month.Format("2006-01-02"))
		}
		if i > 0 {
			prev := s.Points[i-1].Month
			if !p.Month.After(prev) {
				return fmt.Errorf("series %s: months not strictly increasing at %d", s.Material, i)
			}
			if !p.Month.Equal(AddMonths(prev, 1)) {
				return fmt.Errorf("series %s: gap between %s and %s", s.Material,
					prev.Format("2006-01"), p.Month.Format("2006-01"))
			}
		}
		switch p.Kind {
		case KindHistory:
			if seenForecast {
				return fmt.Errorf("series %s: history point after forecast at %d", s.Material, i)
			}
		case KindForecast:
			seenForecast = true
		default:
			return fmt.Errorf("series %s: unknown kind %q", s.Material, p.Kind)
		}
	}
	return nil
}

// PriceAt returns the point for the given month, if present.
func (s *MaterialPriceSeries) PriceAt(month time.Time) (PricePoint, bool) {
	m := MonthStart(month)
	for _, p := range s.Points {
		if p.Month.Equal(m) {
			return p, true
		}
	}
	return PricePoint{}, false
}

// LastHistory returns the most recent history point, if any.
func (s *MaterialPriceSeries) LastHistory() (PricePoint, bool) {
	for i := len(s.Points) - 1; i >= 0; i-- {
		if s.Points[i].Kind == KindHistory {
			return s.Points[i], true
		}
	}
	return PricePoint{}, false
}

// Clone returns a deep copy. Scenario transforms work on copies so the base
// series is never mutated.
func (s *MaterialPriceSeries) Clone() MaterialPriceSeries {
	out := MaterialPriceSeries{Material: s.Material}
	out.Points = make([]PricePoint, len(s.Points))
	copy(out.Points, s.Points)
	return out
}

// MonthStart truncates a time to the first day of its month, UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths returns the month start n months after t.
func AddMonths(t time.Time, n int) time.Time {
	m := MonthStart(t)
	return time.Date(m.Year(), m.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
}

// MonthsBetween returns the number of month steps from a to b (b after a).
func MonthsBetween(a, b time.Time) int {
	a, b = MonthStart(a), MonthStart(b)
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
