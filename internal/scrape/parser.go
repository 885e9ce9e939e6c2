package scrape

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/PuerkitoBio/goquery"

	"github.com/troyes-analytics/effectif/internal/squad"
)

// Structural failures. Any of these means the page did not contain a
// usable squad table and the whole attempt is discarded.
var (
	ErrTableNotFound    = errors.New("squad table not found in document")
	ErrNoTableBody      = errors.New("squad table has no body")
	ErrInsufficientData = errors.New("too few extractable roster rows")
)

// MinPlayers is the smallest roster accepted as a real extraction; a page
// yielding less is noise or a block screen.
const MinPlayers = 10

// DocumentParser fetches the squad page and walks its roster table.
type DocumentParser struct {
	fetcher   Fetcher
	extractor *RowExtractor
	url       string
}

// NewDocumentParser wires a fetcher to the default row extractor.
func NewDocumentParser(fetcher Fetcher, url string) *DocumentParser {
	return &DocumentParser{
		fetcher:   fetcher,
		extractor: NewRowExtractor(),
		url:       url,
	}
}

// Parse runs one complete fetch-and-extract pass. The returned dataset
// keeps the table's row order with duplicates collapsed to their first
// occurrence.
func (p *DocumentParser) Parse(ctx context.Context) (*squad.Dataset, error) {
	doc, err := p.fetcher.Fetch(ctx, p.url)
	if err != nil {
		return nil, fmt.Errorf("fetching squad page: %w", err)
	}
	return p.parseDocument(doc)
}

func (p *DocumentParser) parseDocument(doc *goquery.Document) (*squad.Dataset, error) {
	table := doc.Find("table.items").First()
	if table.Length() == 0 {
		return nil, ErrTableNotFound
	}
	body := table.Find("tbody").First()
	if body.Length() == 0 {
		return nil, ErrNoTableBody
	}

	seen := make(map[string]struct{})
	players := make([]squad.PlayerRecord, 0, 32)

	body.Find("tr").Each(func(i int, row *goquery.Selection) {
		record, err := p.extractRow(row, seen)
		if err != nil {
			if !isRowReject(err) {
				log.Printf("[parser] ⚠️  row %d: %v", i, err)
			}
			return
		}
		players = append(players, record)
	})

	if len(players) < MinPlayers {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrInsufficientData, len(players), MinPlayers)
	}

	log.Printf("[parser] ✓ extracted %d players", len(players))
	return squad.NewDataset(players), nil
}

// extractRow shields the table walk from a malformed row: extraction
// panics become errors so one broken row never aborts the attempt.
func (p *DocumentParser) extractRow(row *goquery.Selection, seen map[string]struct{}) (record squad.PlayerRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("row extraction panic: %v", r)
		}
	}()
	return p.extractor.ExtractRow(row, seen)
}

// isRowReject separates the expected skip conditions from genuine row
// errors worth logging.
func isRowReject(err error) bool {
	return errors.Is(err, ErrTooFewCells) ||
		errors.Is(err, ErrNoPlayerName) ||
		errors.Is(err, ErrDuplicateName) ||
		errors.Is(err, ErrNoValidAge)
}
