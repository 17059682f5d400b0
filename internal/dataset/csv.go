// Package dataset loads the tabular inputs the core consumes: the monthly
// price panel, the intensity baseline, and named scenario presets. Live
// price fetching lives outside this system; by the time data reaches here it
// is an already-materialized table.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/battcast/backend/internal/contracts"
	"github.com/battcast/backend/internal/units"
)

// LoadPricePanel reads a wide monthly price CSV: a "date" column followed by
// one column per material, values in USD/ton. Empty cells are gaps and are
// simply absent from the result.
func LoadPricePanel(path string) (map[string][]contracts.PricePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read price panel header: %w", err)
	}
	if len(header) < 2 || strings.ToLower(strings.TrimSpace(header[0])) != "date" {
		return nil, fmt.Errorf("price panel %s: first column must be date", path)
	}

	materials := make([]string, len(header))
	for i := 1; i < len(header); i++ {
		materials[i] = contracts.CanonicalMaterial(header[i])
	}

	panel := make(map[string][]contracts.PricePoint)
	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read price panel row %d: %w", line, err)
		}
		line++

		month, err := parseDate(record[0])
		if err != nil {
			return nil, fmt.Errorf("price panel row %d: %w", line, err)
		}
		for i := 1; i < len(record) && i < len(header); i++ {
			cell := strings.TrimSpace(record[i])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("price panel row %d, %s: %w", line, materials[i], err)
			}
			if math.IsNaN(v) {
				continue
			}
			panel[materials[i]] = append(panel[materials[i]], contracts.PricePoint{
				Month:     contracts.MonthStart(month),
				USDPerTon: v,
				Kind:      contracts.KindHistory,
			})
		}
	}
	return panel, nil
}

// LoadPriceTable reads a long price CSV with columns date, material, price
// and an optional unit column. Quotes carrying a unit are normalized to
// USD/ton; a row whose unit cannot be resolved falls back to the material's
// documented baseline price instead of aborting the load, and rows with no
// baseline either are dropped with a warning.
func LoadPriceTable(path string, fxUSDPerLocal float64, log zerolog.Logger) ([]contracts.PriceRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read price table header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	dateCol, okDate := cols["date"]
	matCol, okMat := cols["material"]
	priceCol, okPrice := cols["price_usd_per_ton"]
	if !okPrice {
		priceCol, okPrice = cols["price"]
	}
	if !okDate || !okMat || !okPrice {
		return nil, fmt.Errorf("price table %s: need date, material and price columns", path)
	}
	unitCol, hasUnit := cols["unit"]

	var rows []contracts.PriceRow
	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read price table row %d: %w", line, err)
		}
		line++

		month, err := parseDate(record[dateCol])
		if err != nil {
			return nil, fmt.Errorf("price table row %d: %w", line, err)
		}
		material := contracts.CanonicalMaterial(record[matCol])
		value, err := strconv.ParseFloat(strings.TrimSpace(record[priceCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("price table row %d, %s: %w", line, material, err)
		}

		if hasUnit && strings.TrimSpace(record[unitCol]) != "" {
			converted, err := units.ToUSDPerTon(value, record[unitCol], fxUSDPerLocal)
			if err != nil {
				baseline, ok := units.BaselinePrice(material)
				if !ok {
					log.Warn().
						Str("material", material).
						Str("unit", record[unitCol]).
						Msg("unrecognized unit and no baseline, row dropped")
					continue
				}
				log.Warn().
					Str("material", material).
					Str("unit", record[unitCol]).
					Float64("baseline", baseline).
					Msg("unrecognized unit, baseline substituted")
				converted = baseline
			}
			value = converted
		}

		rows = append(rows, contracts.PriceRow{
			Material:  material,
			Month:     contracts.MonthStart(month),
			USDPerTon: value,
		})
	}
	return rows, nil
}

// LoadIntensityBaseline reads the long intensity CSV with columns chemistry,
// material, tons_per_gwh.
func LoadIntensityBaseline(path string) ([]contracts.IntensityRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read intensity header: %w", err)
	}
	if len(header) < 3 {
		return nil, fmt.Errorf("intensity baseline %s: need chemistry, material, tons_per_gwh", path)
	}

	var records []contracts.IntensityRecord
	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read intensity row %d: %w", line, err)
		}
		line++

		tons, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("intensity row %d: %w", line, err)
		}
		if tons < 0 {
			return nil, fmt.Errorf("intensity row %d: negative tons_per_gwh", line)
		}
		records = append(records, contracts.IntensityRecord{
			Chemistry:  contracts.CanonicalChemistry(record[0]),
			Material:   strings.TrimSpace(record[1]),
			TonsPerGWh: tons,
		})
	}
	return records, nil
}

var dateLayouts = []string{"2006-01-02", "2006-01", "2006/01/02", "01/2006"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
