package squad

import (
	"math"
	"regexp"
	"testing"
)

func TestValidAge(t *testing.T) {
	tests := []struct {
		name string
		age  int
		want bool
	}{
		{"below minimum", 15, false},
		{"at minimum", 16, true},
		{"mid range", 27, true},
		{"at maximum", 50, true},
		{"above maximum", 51, false},
		{"zero", 0, false},
		{"negative", -3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidAge(tt.age); got != tt.want {
				t.Errorf("ValidAge(%d) = %v, want %v", tt.age, got, tt.want)
			}
		})
	}
}

func TestDatasetAggregates(t *testing.T) {
	d := NewDataset([]PlayerRecord{
		{Name: "A", Position: PositionGoalkeeper, Age: 30, MarketValue: 1.0, ContractExpires: "30/06/2026"},
		{Name: "B", Position: PositionDefender, Age: 20, MarketValue: 2.5, ContractExpires: "30/06/2027"},
		{Name: "C", Position: PositionDefender, Age: 55, MarketValue: 0.5, ContractExpires: ExpiryUnknown},
		{Name: "D", Position: PositionUnknown, Age: 25, MarketValue: 0.0, ContractExpires: ExpiryUnknown},
	})

	if got := d.Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
	if got := d.ValidAgeFraction(); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("ValidAgeFraction() = %v, want 0.75", got)
	}
	if got := d.DistinctPositions(); got != 3 {
		t.Errorf("DistinctPositions() = %d, want 3", got)
	}
	if got := d.DistinctKnownPositions(); got != 2 {
		t.Errorf("DistinctKnownPositions() = %d, want 2", got)
	}
	if got := d.MeanAge(); math.Abs(got-32.5) > 1e-9 {
		t.Errorf("MeanAge() = %v, want 32.5", got)
	}
	if got := d.TotalMarketValue(); math.Abs(got-4.0) > 1e-9 {
		t.Errorf("TotalMarketValue() = %v, want 4.0", got)
	}
}

func TestEmptyDatasetAggregates(t *testing.T) {
	d := NewDataset(nil)
	if got := d.ValidAgeFraction(); got != 0 {
		t.Errorf("ValidAgeFraction() = %v, want 0", got)
	}
	if got := d.MeanAge(); got != 0 {
		t.Errorf("MeanAge() = %v, want 0", got)
	}
	if got := d.DistinctPositions(); got != 0 {
		t.Errorf("DistinctPositions() = %d, want 0", got)
	}
}

func TestFallbackRosterInvariants(t *testing.T) {
	d := FallbackRoster()

	if got := d.Len(); got != 12 {
		t.Fatalf("fallback roster has %d records, want 12", got)
	}
	if got := d.ValidAgeFraction(); got != 1.0 {
		t.Errorf("fallback ValidAgeFraction() = %v, want 1.0", got)
	}
	if got := d.DistinctPositions(); got != 4 {
		t.Errorf("fallback DistinctPositions() = %d, want 4", got)
	}
	if got := d.TotalMarketValue(); math.Abs(got-18.6) > 1e-9 {
		t.Errorf("fallback TotalMarketValue() = %v, want 18.6", got)
	}

	dateFormat := regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	seen := make(map[string]struct{})
	for _, p := range d.Players {
		if p.Name == "" {
			t.Error("fallback record with empty name")
		}
		if _, dup := seen[p.Name]; dup {
			t.Errorf("duplicate fallback name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		if !ValidAge(p.Age) {
			t.Errorf("%s: age %d out of range", p.Name, p.Age)
		}
		if p.MarketValue < 0 {
			t.Errorf("%s: negative market value %v", p.Name, p.MarketValue)
		}
		if p.Position == PositionUnknown {
			t.Errorf("%s: fallback position should be known", p.Name)
		}
		if p.ContractExpires != ExpiryUnknown && !dateFormat.MatchString(p.ContractExpires) {
			t.Errorf("%s: contract date %q not DD/MM/YYYY", p.Name, p.ContractExpires)
		}
	}
}

func TestFallbackRosterIsFreshCopy(t *testing.T) {
	first := FallbackRoster()
	first.Players[0].Name = "mutated"

	second := FallbackRoster()
	if second.Players[0].Name != "Nicolas de Préville" {
		t.Error("FallbackRoster() shares state between calls")
	}
}
