package contracts

import (
	"testing"
	"time"
)

func mm(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestMaterialPriceSeries_Validate(t *testing.T) {
	tests := []struct {
		name    string
		points  []PricePoint
		wantErr bool
	}{
		{
			name: "valid history then forecast",
			points: []PricePoint{
				{Month: mm(2026, time.January), USDPerTon: 100, Kind: KindHistory},
				{Month: mm(2026, time.February), USDPerTon: 110, Kind: KindHistory},
				{Month: mm(2026, time.March), USDPerTon: 120, Kind: KindForecast},
			},
		},
		{
			name:   "empty series",
			points: nil,
		},
		{
			name: "not first of month",
			points: []PricePoint{
				{Month: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), USDPerTon: 100, Kind: KindHistory},
			},
			wantErr: true,
		},
		{
			name: "gap between months",
			points: []PricePoint{
				{Month: mm(2026, time.January), USDPerTon: 100, Kind: KindHistory},
				{Month: mm(2026, time.March), USDPerTon: 120, Kind: KindHistory},
			},
			wantErr: true,
		},
		{
			name: "duplicate month",
			points: []PricePoint{
				{Month: mm(2026, time.January), USDPerTon: 100, Kind: KindHistory},
				{Month: mm(2026, time.January), USDPerTon: 110, Kind: KindHistory},
			},
			wantErr: true,
		},
		{
			name: "history after forecast",
			points: []PricePoint{
				{Month: mm(2026, time.January), USDPerTon: 100, Kind: KindForecast},
				{Month: mm(2026, time.February), USDPerTon: 110, Kind: KindHistory},
			},
			wantErr: true,
		},
		{
			name: "unknown kind",
			points: []PricePoint{
				{Month: mm(2026, time.January), USDPerTon: 100, Kind: "projected"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MaterialPriceSeries{Material: "nickel", Points: tt.points}
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMaterialPriceSeries_PriceAt(t *testing.T) {
	s := MaterialPriceSeries{
		Material: "cobalt",
		Points: []PricePoint{
			{Month: mm(2026, time.March), USDPerTon: 35000, Kind: KindHistory},
		},
	}

	p, ok := s.PriceAt(time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC))
	if !ok || p.USDPerTon != 35000 {
		t.Errorf("PriceAt() = %v, %v; want 35000, true", p.USDPerTon, ok)
	}

	if _, ok := s.PriceAt(mm(2026, time.April)); ok {
		t.Error("PriceAt() found a point for an absent month")
	}
}

func TestMaterialPriceSeries_Clone(t *testing.T) {
	s := MaterialPriceSeries{
		Material: "nickel",
		Points: []PricePoint{
			{Month: mm(2026, time.January), USDPerTon: 100, Kind: KindHistory},
		},
	}

	c := s.Clone()
	c.Points[0].USDPerTon = 999

	if s.Points[0].USDPerTon != 100 {
		t.Error("Clone() shares backing storage with the original")
	}
}

func TestMonthHelpers(t *testing.T) {
	if got := MonthStart(time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)); !got.Equal(mm(2026, time.August)) {
		t.Errorf("MonthStart() = %v", got)
	}
	if got := AddMonths(mm(2026, time.November), 3); !got.Equal(mm(2027, time.February)) {
		t.Errorf("AddMonths() = %v", got)
	}
	if got := MonthsBetween(mm(2026, time.July), mm(2027, time.February)); got != 7 {
		t.Errorf("MonthsBetween() = %d, want 7", got)
	}
}

func TestCanonicalMaterial(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"lithium_carbonate", "lithium_carbonate"},
		{"Lithium Carbonate", "lithium_carbonate"},
		{"  NICKEL ", "nickel"},
		{"manganese", "manganese_sulfate"},
		{"Manganese", "manganese_sulfate"},
		{"graphite", "graphite_battery"},
		{"graphite_battery", "graphite_battery"},
	}

	for _, tt := range tests {
		if got := CanonicalMaterial(tt.in); got != tt.want {
			t.Errorf("CanonicalMaterial(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalChemistry(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"lfp", "lfp"},
		{"LFP", "lfp"},
		{" NMC811 ", "nmc811"},
	}

	for _, tt := range tests {
		if got := CanonicalChemistry(tt.in); got != tt.want {
			t.Errorf("CanonicalChemistry(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
