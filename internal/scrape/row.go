package scrape

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/troyes-analytics/effectif/internal/squad"
)

// Row-level rejects. A rejected row is skipped; it never aborts the attempt.
var (
	ErrTooFewCells   = errors.New("too few cells for a roster row")
	ErrNoPlayerName  = errors.New("no player name in row")
	ErrDuplicateName = errors.New("duplicate player name")
	ErrNoValidAge    = errors.New("no valid age in row")
)

// minRowCells filters out the nested layout rows the site packs inside each
// player cell.
const minRowCells = 5

var (
	ageRe    = regexp.MustCompile(`\((\d{1,2})\)`)
	expiryRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// Contract years outside this band are signing or birth dates, not expiries.
const (
	expiryYearMin = 2025
	expiryYearMax = 2030
)

// ExpirySelector picks the contract-expiry date for one roster row, given
// the row's structured view and the flat text of every cell. It returns a
// DD/MM/YYYY string or squad.ExpiryUnknown.
type ExpirySelector func(row *goquery.Selection, cells []string) string

// RowExtractor turns one squad-table row into a PlayerRecord.
type RowExtractor struct {
	SelectExpiry ExpirySelector
}

// NewRowExtractor returns an extractor with the default expiry heuristic.
func NewRowExtractor() *RowExtractor {
	return &RowExtractor{SelectExpiry: DefaultExpirySelector}
}

// ExtractRow extracts a single player from a table row. seen holds the
// names already extracted in this attempt so repeated rows collapse to
// their first occurrence.
func (e *RowExtractor) ExtractRow(row *goquery.Selection, seen map[string]struct{}) (squad.PlayerRecord, error) {
	cells := row.Find("td")
	if cells.Length() < minRowCells {
		return squad.PlayerRecord{}, ErrTooFewCells
	}

	name := extractName(row)
	if name == "" {
		return squad.PlayerRecord{}, ErrNoPlayerName
	}
	if _, dup := seen[name]; dup {
		return squad.PlayerRecord{}, ErrDuplicateName
	}

	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, cell *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(cell.Text()))
	})

	position := squad.PositionUnknown
	for _, text := range texts {
		if looksLikePositionCell(text) {
			position = NormalizePosition(text)
			break
		}
	}

	age := 0
	for _, text := range texts {
		m := ageRe.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate, err := strconv.Atoi(m[1])
		if err != nil || !squad.ValidAge(candidate) {
			continue
		}
		age = candidate
		break
	}
	if age == 0 {
		return squad.PlayerRecord{}, ErrNoValidAge
	}

	value := 0.0
	for _, text := range texts {
		if strings.Contains(text, "€") && strings.Contains(strings.ToLower(text), "mil") {
			value = ParseMarketValue(text)
			break
		}
	}

	expiry := squad.ExpiryUnknown
	if e.SelectExpiry != nil {
		expiry = e.SelectExpiry(row, texts)
	}

	seen[name] = struct{}{}
	return squad.PlayerRecord{
		Name:            name,
		Position:        position,
		Age:             age,
		MarketValue:     value,
		ContractExpires: expiry,
	}, nil
}

// extractName reads the primary player link: the anchor inside the first
// hauptlink cell, the cell's own text when there is no anchor.
func extractName(row *goquery.Selection) string {
	cell := row.Find("td.hauptlink").First()
	if cell.Length() == 0 {
		return ""
	}
	if link := cell.Find("a").First(); link.Length() > 0 {
		return strings.TrimSpace(link.Text())
	}
	return strings.TrimSpace(cell.Text())
}

// DefaultExpirySelector resolves the expiry date from a row that carries
// several bare DD/MM/YYYY cells (joined, signed, contract end). It prefers
// centered cells, walks the candidates right to left and keeps the first
// with a plausible contract year, then falls back to rescanning every cell.
func DefaultExpirySelector(row *goquery.Selection, cells []string) string {
	var dates []string
	row.Find("td.zentriert").Each(func(_ int, cell *goquery.Selection) {
		text := strings.TrimSpace(cell.Text())
		if expiryRe.MatchString(text) {
			dates = append(dates, text)
		}
	})

	switch {
	case len(dates) >= 2:
		for i := len(dates) - 1; i >= 0; i-- {
			if plausibleExpiryYear(dates[i]) {
				return dates[i]
			}
		}
		// No date in the band; the rightmost is still the best guess.
		return dates[len(dates)-1]
	case len(dates) == 1:
		if plausibleExpiryYear(dates[0]) {
			return dates[0]
		}
	}

	expiry := squad.ExpiryUnknown
	for _, text := range cells {
		if expiryRe.MatchString(text) && plausibleExpiryYear(text) {
			expiry = text
		}
	}
	return expiry
}

func plausibleExpiryYear(date string) bool {
	year, err := strconv.Atoi(date[len(date)-4:])
	if err != nil {
		return false
	}
	return year >= expiryYearMin && year <= expiryYearMax
}
