package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/troyes-analytics/effectif/internal/squad"
)

// positionTable maps each category to the source-site terms that identify
// it, across Spanish, English and German. Categories are checked top to
// bottom and the first containing keyword wins, so ordering is part of the
// normalization contract.
var positionTable = []struct {
	category squad.Position
	keywords []string
}{
	{squad.PositionGoalkeeper, []string{
		"goalkeeper", "portero", "torwart", "guardameta",
	}},
	{squad.PositionDefender, []string{
		"defender", "defence", "defensa", "defensa central", "centre-back",
		"center-back", "central", "left-back", "right-back", "lateral izquierdo",
		"lateral derecho", "lateral", "defensive", "verteidiger", "pivote",
	}},
	{squad.PositionMidfielder, []string{
		"midfield", "midfielder", "mediocentro", "central midfield",
		"defensive midfield", "attacking midfield", "mediocentro ofensivo",
		"mediocentro defensivo", "mittelfeld",
	}},
	{squad.PositionForward, []string{
		"forward", "striker", "winger", "attacker", "delantero", "extremo",
		"delantero centro", "extremo izquierdo", "extremo derecho",
		"centre-forward", "center-forward", "left winger", "right winger",
		"sturm", "angriff",
	}},
}

// positionHints mark a table cell as the position column on the
// Spanish-language squad page.
var positionHints = []string{
	"portero", "defensa", "lateral", "pivote", "mediocentro", "extremo", "delantero", "centro",
}

// NormalizePosition maps raw position text onto the closed category set.
// Unrecognized or empty text comes back as Unknown, never an error.
func NormalizePosition(raw string) squad.Position {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return squad.PositionUnknown
	}
	for _, entry := range positionTable {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				return entry.category
			}
		}
	}
	return squad.PositionUnknown
}

// looksLikePositionCell reports whether a cell's text names a playing
// position.
func looksLikePositionCell(text string) bool {
	lower := strings.ToLower(text)
	for _, hint := range positionHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

var numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseMarketValue converts market-value cell text to millions of euros.
// The site mixes locales ("€1.50m", "500 mil €", "1,50 mill. €"), so the
// unit ladder runs from the most explicit marker down to a magnitude guess:
// unitless values under 100 are read as thousands.
func ParseMarketValue(raw string) float64 {
	text := strings.TrimSpace(raw)
	if text == "" || text == "-" {
		return 0.0
	}

	text = strings.ReplaceAll(text, ",", ".")
	text = strings.ReplaceAll(text, "€", "")
	text = strings.ReplaceAll(text, " ", "")
	text = strings.ToLower(text)

	match := numberRe.FindString(text)
	if match == "" {
		return 0.0
	}
	number, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0.0
	}

	switch {
	case strings.Contains(text, "mill"):
		return number
	case strings.Contains(text, "mil"), strings.Contains(text, "k"):
		return number / 1000.0
	case strings.Contains(text, "m"):
		return number
	case number < 100:
		return number / 1000.0
	default:
		return number / 1000000.0
	}
}
