package service

import (
	"math"
	"testing"
	"time"

	"github.com/troyes-analytics/effectif/internal/acquire"
	"github.com/troyes-analytics/effectif/internal/squad"
)

type staticProvider struct {
	result *acquire.Result
}

func (p *staticProvider) Current() *acquire.Result { return p.result }

func testService() *SquadService {
	records := []squad.PlayerRecord{
		{Name: "Gauthier Gallon", Position: squad.PositionGoalkeeper, Age: 29, MarketValue: 1.0, ContractExpires: "30/06/2024"},
		{Name: "Yoann Salmier", Position: squad.PositionDefender, Age: 31, MarketValue: 0.8, ContractExpires: "30/06/2025"},
		{Name: "Jackson Porozo", Position: squad.PositionDefender, Age: 24, MarketValue: 2.0, ContractExpires: "30/06/2026"},
		{Name: "Xavier Chavalerin", Position: squad.PositionMidfielder, Age: 33, MarketValue: 1.8, ContractExpires: "30/06/2025"},
		{Name: "Wilson Odobert", Position: squad.PositionForward, Age: 19, MarketValue: 3.5, ContractExpires: "30/06/2027"},
		{Name: "Renaud Ripart", Position: squad.PositionForward, Age: 32, MarketValue: 1.2, ContractExpires: "30/06/2025"},
	}
	result := &acquire.Result{
		Dataset:    squad.NewDataset(records),
		Source:     squad.SourceLive,
		Attempts:   1,
		AcquiredAt: time.Now(),
	}
	return NewSquadService(&staticProvider{result: result})
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPlayersNoFilterKeepsRosterOrder(t *testing.T) {
	svc := testService()

	players := svc.Players(Filter{})
	if len(players) != 6 {
		t.Fatalf("expected 6 players, got %d", len(players))
	}
	if players[0].Name != "Gauthier Gallon" || players[5].Name != "Renaud Ripart" {
		t.Errorf("roster order not preserved: first %q, last %q", players[0].Name, players[5].Name)
	}
}

func TestPositionFilter(t *testing.T) {
	svc := testService()

	tests := []struct {
		position string
		want     int
	}{
		{"Forward", 2},
		{"forward", 2},
		{"Defender", 2},
		{"All", 6},
		{"", 6},
		{"Goalkeeper", 1},
		{"Unknown", 0},
	}

	for _, tt := range tests {
		got := len(svc.Players(Filter{Position: tt.position}))
		if got != tt.want {
			t.Errorf("position %q: expected %d players, got %d", tt.position, tt.want, got)
		}
	}
}

func TestAgeRangeFilter(t *testing.T) {
	svc := testService()

	players := svc.Players(Filter{MinAge: 24, MaxAge: 31})
	if len(players) != 3 {
		t.Fatalf("expected 3 players aged 24-31, got %d", len(players))
	}
	for _, p := range players {
		if p.Age < 24 || p.Age > 31 {
			t.Errorf("player %s age %d outside requested range", p.Name, p.Age)
		}
	}
}

func TestValueRangeFilter(t *testing.T) {
	svc := testService()

	players := svc.Players(Filter{MinValue: 1.2})
	if len(players) != 4 {
		t.Fatalf("expected 4 players worth at least 1.2, got %d", len(players))
	}

	players = svc.Players(Filter{MaxValue: 1.0})
	if len(players) != 2 {
		t.Fatalf("expected 2 players worth at most 1.0, got %d", len(players))
	}
}

func TestCombinedFilter(t *testing.T) {
	svc := testService()

	players := svc.Players(Filter{Position: "Forward", MaxAge: 20})
	if len(players) != 1 || players[0].Name != "Wilson Odobert" {
		t.Fatalf("expected only Odobert, got %+v", players)
	}
}

func TestStats(t *testing.T) {
	svc := testService()

	stats := svc.Stats(Filter{})

	if stats.PlayerCount != 6 {
		t.Errorf("expected 6 players, got %d", stats.PlayerCount)
	}
	if !approx(stats.TotalValue, 10.3) {
		t.Errorf("expected total value 10.3, got %f", stats.TotalValue)
	}
	if !approx(stats.AverageAge, 28.0) {
		t.Errorf("expected average age 28.0, got %f", stats.AverageAge)
	}
	if !approx(stats.ValueEfficiency, 10.3/28.0) {
		t.Errorf("expected value efficiency %f, got %f", 10.3/28.0, stats.ValueEfficiency)
	}

	wantLines := map[string]float64{
		"Goalkeeper": 1.0,
		"Defense":    2.8,
		"Midfield":   1.8,
		"Attack":     4.7,
	}
	for line, want := range wantLines {
		if !approx(stats.LineTotals[line], want) {
			t.Errorf("line %s: expected %f, got %f", line, want, stats.LineTotals[line])
		}
	}

	if stats.PositionCounts["Defender"] != 2 || stats.PositionCounts["Forward"] != 2 {
		t.Errorf("unexpected position counts: %+v", stats.PositionCounts)
	}
}

func TestStatsOnFilteredView(t *testing.T) {
	svc := testService()

	stats := svc.Stats(Filter{Position: "Forward"})

	if stats.PlayerCount != 2 {
		t.Fatalf("expected 2 forwards, got %d", stats.PlayerCount)
	}
	if !approx(stats.TotalValue, 4.7) {
		t.Errorf("expected forward value 4.7, got %f", stats.TotalValue)
	}
	if !approx(stats.AverageAge, 25.5) {
		t.Errorf("expected forward average age 25.5, got %f", stats.AverageAge)
	}
}

func TestStatsEmptyViewHasNoNaN(t *testing.T) {
	svc := testService()

	stats := svc.Stats(Filter{Position: "Unknown"})

	if stats.PlayerCount != 0 {
		t.Fatalf("expected empty view, got %d players", stats.PlayerCount)
	}
	if stats.AverageAge != 0 || stats.ValueEfficiency != 0 {
		t.Errorf("empty view should produce zeros, got age %f, efficiency %f",
			stats.AverageAge, stats.ValueEfficiency)
	}
	if math.IsNaN(stats.AverageAge) || math.IsNaN(stats.ValueEfficiency) {
		t.Error("aggregates must never be NaN")
	}
}
