package service

import (
	"strings"

	"github.com/troyes-analytics/effectif/internal/acquire"
	"github.com/troyes-analytics/effectif/internal/squad"
)

// DatasetProvider supplies the most recent acquisition result.
type DatasetProvider interface {
	Current() *acquire.Result
}

// SquadService serves filtered views and aggregates of the current dataset
type SquadService struct {
	provider DatasetProvider
}

// NewSquadService creates a new squad service
func NewSquadService(provider DatasetProvider) *SquadService {
	return &SquadService{provider: provider}
}

// Filter narrows the dataset. Zero values leave a bound open; an empty or
// "All" position keeps every position.
type Filter struct {
	Position string
	MinAge   int
	MaxAge   int
	MinValue float64
	MaxValue float64
}

// Result returns the full current acquisition result
func (s *SquadService) Result() *acquire.Result {
	return s.provider.Current()
}

// Players returns the current records matching the filter, in roster order
func (s *SquadService) Players(f Filter) []squad.PlayerRecord {
	return applyFilter(s.provider.Current().Dataset.Players, f)
}

// Stats computes aggregates over the filtered records
func (s *SquadService) Stats(f Filter) *SquadStats {
	players := applyFilter(s.provider.Current().Dataset.Players, f)

	stats := &SquadStats{
		PlayerCount:    len(players),
		LineTotals:     make(map[string]float64),
		PositionCounts: make(map[string]int),
	}

	var totalAge int
	for _, p := range players {
		stats.TotalValue += p.MarketValue
		totalAge += p.Age
		stats.LineTotals[lineFor(p.Position)] += p.MarketValue
		stats.PositionCounts[string(p.Position)]++
	}

	stats.AverageAge = safeDiv(float64(totalAge), float64(len(players)))
	stats.ValueEfficiency = safeDiv(stats.TotalValue, stats.AverageAge)

	return stats
}

func applyFilter(players []squad.PlayerRecord, f Filter) []squad.PlayerRecord {
	filtered := make([]squad.PlayerRecord, 0, len(players))
	for _, p := range players {
		if !matchesPosition(p, f.Position) {
			continue
		}
		if f.MinAge > 0 && p.Age < f.MinAge {
			continue
		}
		if f.MaxAge > 0 && p.Age > f.MaxAge {
			continue
		}
		if f.MinValue > 0 && p.MarketValue < f.MinValue {
			continue
		}
		if f.MaxValue > 0 && p.MarketValue > f.MaxValue {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func matchesPosition(p squad.PlayerRecord, position string) bool {
	if position == "" || strings.EqualFold(position, "All") {
		return true
	}
	return strings.EqualFold(string(p.Position), position)
}

// lineFor maps a position to the tactical line used for value breakdowns
func lineFor(pos squad.Position) string {
	switch pos {
	case squad.PositionGoalkeeper:
		return "Goalkeeper"
	case squad.PositionDefender:
		return "Defense"
	case squad.PositionMidfielder:
		return "Midfield"
	case squad.PositionForward:
		return "Attack"
	default:
		return "Unknown"
	}
}

// SquadStats contains aggregates over a (possibly filtered) squad view.
// ValueEfficiency is total market value divided by average age, in M€ per
// year of age.
type SquadStats struct {
	PlayerCount     int                `json:"player_count"`
	TotalValue      float64            `json:"total_value_m_eur"`
	AverageAge      float64            `json:"average_age"`
	ValueEfficiency float64            `json:"value_efficiency"`
	LineTotals      map[string]float64 `json:"line_totals_m_eur"`
	PositionCounts  map[string]int     `json:"position_counts"`
}

// safeDiv performs division with zero check
func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
