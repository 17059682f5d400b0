// Package units normalizes heterogeneous commodity price quotes to a common
// USD-per-metric-ton basis.
package units

import (
	"errors"
	"regexp"
	"strings"
)

// Conversion constants.
const (
	LbPerTon = 2204.62262185
	KgPerTon = 1000.0
	OzPerTon = 32000.0 // approximate, precious-metal troy ounces

	// DefaultUSDPerCNY is used when a CNY-quoted unit arrives without an
	// explicit FX rate (roughly 1/7.0).
	DefaultUSDPerCNY = 0.14
)

// ErrUnrecognizedUnit reports a unit string that cannot be mapped to
// USD/ton. Callers recover locally by substituting the documented baseline
// price for the material; one bad unit never aborts a whole ingest run.
var ErrUnrecognizedUnit = errors.New("unrecognized price unit")

var (
	usdPerTonRe   = regexp.MustCompile(`^USD/(MT|T|TON|TONNE|METRICTON)$`)
	localPerTonRe = regexp.MustCompile(`^CNY/(MT|T|TON|TONNE)$`)
)

// ToUSDPerTon converts a price quote to USD per metric ton. The unit string
// is matched case-insensitively after stripping spaces. fxUSDPerLocal is the
// USD value of one local-currency unit for local-denominated quotes; pass 0
// to use the default CNY rate.
func ToUSDPerTon(value float64, unit string, fxUSDPerLocal float64) (float64, error) {
	u := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(unit), " ", ""))

	switch {
	case usdPerTonRe.MatchString(u):
		return value, nil
	case u == "USD/LB":
		return value * LbPerTon, nil
	case u == "USD/KG":
		return value * KgPerTon, nil
	case u == "USD/OZ":
		return value * OzPerTon, nil
	case u == "CENTS/LB" || u == "USC/LB":
		return value / 100 * LbPerTon, nil
	case localPerTonRe.MatchString(u):
		fx := fxUSDPerLocal
		if fx <= 0 {
			fx = DefaultUSDPerCNY
		}
		return value * fx, nil
	}

	return 0, ErrUnrecognizedUnit
}

// baselinePrices are documented fallback values (USD/ton) for materials whose
// quotes cannot be resolved. Carried over from the fetch layer's baseline
// table so unit failures degrade to a usable price instead of a hole.
var baselinePrices = map[string]float64{
	"graphite_battery":  7000.0,
	"manganese_sulfate": 1100.0,
	"lithium_carbonate": 15000.0,
	"cobalt":            35000.0,
	"nickel":            20000.0,
	"phosphate_rock":    120.0, // proxy for LFP composition
	"iron_ore":          100.0, // proxy for LFP composition
}

// BaselinePrice returns the fallback USD/ton price for a canonical material
// key, if one is documented.
func BaselinePrice(material string) (float64, bool) {
	v, ok := baselinePrices[material]
	return v, ok
}
