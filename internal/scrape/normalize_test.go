package scrape

import (
	"math"
	"testing"

	"github.com/troyes-analytics/effectif/internal/squad"
)

func TestNormalizePosition(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want squad.Position
	}{
		{"spanish goalkeeper", "Portero", squad.PositionGoalkeeper},
		{"english goalkeeper", "Goalkeeper", squad.PositionGoalkeeper},
		{"german goalkeeper", "Torwart", squad.PositionGoalkeeper},
		{"spanish centre back", "Defensa central", squad.PositionDefender},
		{"english centre back", "Centre-Back", squad.PositionDefender},
		{"spanish left back", "Lateral izquierdo", squad.PositionDefender},
		{"german defender", "Verteidiger", squad.PositionDefender},
		{"pivote maps to defender", "Pivote", squad.PositionDefender},
		{"spanish central midfield", "Mediocentro", squad.PositionMidfielder},
		{"spanish defensive midfield", "Mediocentro defensivo", squad.PositionMidfielder},
		{"german midfield", "Mittelfeld", squad.PositionMidfielder},
		{"defensive midfield wins defender by order", "Defensive Midfield", squad.PositionDefender},
		{"spanish striker", "Delantero centro", squad.PositionForward},
		{"spanish winger", "Extremo derecho", squad.PositionForward},
		{"english winger", "Left Winger", squad.PositionForward},
		{"german attack", "Sturm", squad.PositionForward},
		{"embedded in longer text", "Juan Pérez Delantero centro", squad.PositionForward},
		{"mixed case", "pOrTeRo", squad.PositionGoalkeeper},
		{"unrecognized", "Director deportivo", squad.PositionUnknown},
		{"empty", "", squad.PositionUnknown},
		{"whitespace only", "   ", squad.PositionUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePosition(tt.raw)
			if got != tt.want {
				t.Errorf("NormalizePosition(%q) = %q, want %q", tt.raw, got, tt.want)
			}
			// Same input, same category, every time.
			if again := NormalizePosition(tt.raw); again != got {
				t.Errorf("NormalizePosition(%q) not deterministic: %q then %q", tt.raw, got, again)
			}
		})
	}
}

func TestNormalizePositionCoversEveryKeyword(t *testing.T) {
	// Earlier categories can claim a later category's compound keyword
	// ("defensive midfield" lands on Defender), so the guarantee is that no
	// keyword ever falls through to Unknown.
	for _, entry := range positionTable {
		for _, keyword := range entry.keywords {
			if got := NormalizePosition(keyword); got == squad.PositionUnknown {
				t.Errorf("keyword %q normalized to Unknown", keyword)
			}
		}
	}
}

func TestParseMarketValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"euro decimal m", "€1.50m", 1.50},
		{"euro k suffix", "€500k", 0.5},
		{"spaced k suffix", "500 k €", 0.5},
		{"comma decimal mill", "1,50 mill. €", 1.50},
		{"mil thousands", "600 mil €", 0.6},
		{"dash placeholder", "-", 0.0},
		{"empty", "", 0.0},
		{"bare small number", "€50", 0.05},
		{"bare large number", "€50000000", 50.0},
		{"comma decimal m", "€1,2m", 1.2},
		{"mill without euro sign", "2.40 mill.", 2.40},
		{"no numeric content", "€ libre", 0.0},
		{"whitespace only", "   ", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMarketValue(tt.raw)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseMarketValue(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			if got < 0 {
				t.Errorf("ParseMarketValue(%q) negative: %v", tt.raw, got)
			}
		})
	}
}

func TestLooksLikePositionCell(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Portero", true},
		{"Delantero centro", true},
		{"MEDIOCENTRO", true},
		{"30/06/2026", false},
		{"€1.50m", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := looksLikePositionCell(tt.text); got != tt.want {
			t.Errorf("looksLikePositionCell(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
