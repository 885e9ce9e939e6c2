package scrape

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultSquadURL is the club's squad page, detail view.
const DefaultSquadURL = "https://www.transfermarkt.es/estac-troyes/kader/verein/1095/saison_id/2025/plus/1"

// FetchTimeout bounds one page request end to end. No retries at this
// layer; the acquisition controller owns the retry policy.
const FetchTimeout = 20 * time.Second

// Fetcher retrieves the squad page as a parsed document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// browserHeaders is the full desktop-browser header set. The site serves
// browsers happily but rejects obvious bot fingerprints.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "es-ES,es;q=0.9,en;q=0.5",
	"Accept-Encoding": "gzip, deflate",
	"Connection":      "keep-alive",
	"Referer":         "https://www.transfermarkt.es/",
}

// HTTPFetcher fetches with a plain HTTP client posing as a desktop browser.
type HTTPFetcher struct {
	httpClient *http.Client
}

// NewHTTPFetcher creates a fetcher; timeout <= 0 uses FetchTimeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = FetchTimeout
	}
	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch performs one GET and parses the response body. Any non-2xx status
// is a failed fetch.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for key, value := range browserHeaders {
		req.Header.Set(key, value)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	// Setting Accept-Encoding by hand disables the transport's transparent
	// gzip, so the body may arrive compressed.
	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("opening gzip body: %w", err)
		}
		defer gz.Close()
		body = gz
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return doc, nil
}
