package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

type staticFetcher struct {
	doc *goquery.Document
	err error
}

func (f staticFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	return f.doc, f.err
}

func fixtureDocument(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + body + "</body></html>"))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

// squadTable builds a table.items document with one row per player name.
func squadTable(names ...string) string {
	var rows strings.Builder
	for i, name := range names {
		rows.WriteString("<tr>" + playerCells(
			name,
			"Delantero centro",
			fmt.Sprintf("01/01/2000 (%d)", 20+i%10),
			"30/06/2026",
			"1,00 mill. €",
		) + "</tr>")
	}
	return `<table class="items"><thead><tr><th>h</th></tr></thead><tbody>` + rows.String() + `</tbody></table>`
}

func manyNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Jugador %02d", i+1)
	}
	return names
}

func TestParseDocumentStructuralFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"no squad table", `<div>nothing here</div>`, ErrTableNotFound},
		{"wrong table class", `<table class="other"><tbody><tr><td>x</td></tr></tbody></table>`, ErrTableNotFound},
		{"table without body", `<table class="items"></table>`, ErrNoTableBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewDocumentParser(staticFetcher{doc: fixtureDocument(t, tt.body)}, DefaultSquadURL)
			_, err := parser.Parse(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseDocumentInsufficientRows(t *testing.T) {
	parser := NewDocumentParser(staticFetcher{doc: fixtureDocument(t, squadTable(manyNames(9)...))}, DefaultSquadURL)
	_, err := parser.Parse(context.Background())
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Parse() error = %v, want ErrInsufficientData", err)
	}
}

func TestParseDocumentSuccess(t *testing.T) {
	names := manyNames(14)
	parser := NewDocumentParser(staticFetcher{doc: fixtureDocument(t, squadTable(names...))}, DefaultSquadURL)

	dataset, err := parser.Parse(context.Background())
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if dataset.Len() != len(names) {
		t.Fatalf("Parse() extracted %d players, want %d", dataset.Len(), len(names))
	}
	// Row order is preserved.
	for i, p := range dataset.Players {
		if p.Name != names[i] {
			t.Errorf("player %d = %q, want %q", i, p.Name, names[i])
		}
	}
}

func TestParseDocumentCollapsesDuplicates(t *testing.T) {
	names := append(manyNames(12), "Jugador 03", "Jugador 07")
	parser := NewDocumentParser(staticFetcher{doc: fixtureDocument(t, squadTable(names...))}, DefaultSquadURL)

	dataset, err := parser.Parse(context.Background())
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if dataset.Len() != 12 {
		t.Errorf("Parse() kept %d players, want 12 after dedupe", dataset.Len())
	}
}

func TestParseDocumentSkipsBrokenRows(t *testing.T) {
	// Half-formed rows between real ones must be skipped, not fatal.
	junk := `<tr><td>solo</td></tr>` +
		`<tr><td>a</td><td>b</td><td>c</td><td>d</td><td>e</td></tr>`
	body := `<table class="items"><tbody>` + junk
	for i, name := range manyNames(11) {
		body += "<tr>" + playerCells(name, "Portero", fmt.Sprintf("01/01/1999 (%d)", 21+i), "30/06/2026", "€600 mil") + "</tr>"
	}
	body += `</tbody></table>`

	parser := NewDocumentParser(staticFetcher{doc: fixtureDocument(t, body)}, DefaultSquadURL)
	dataset, err := parser.Parse(context.Background())
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if dataset.Len() != 11 {
		t.Errorf("Parse() kept %d players, want 11", dataset.Len())
	}
}

func TestParseFetchErrorPropagates(t *testing.T) {
	wantErr := errors.New("connection refused")
	parser := NewDocumentParser(staticFetcher{err: wantErr}, DefaultSquadURL)
	_, err := parser.Parse(context.Background())
	if !errors.Is(err, wantErr) {
		t.Errorf("Parse() error = %v, want wrapped fetch error", err)
	}
}
