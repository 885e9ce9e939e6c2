package scrape

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// BrowserFetcher renders the squad page in headless Chrome. The site
// sometimes blocks the plain client's TLS fingerprint outright; a real
// browser engine gets through at the cost of startup weight. Off by
// default, selected with SCRAPE_BROWSER.
type BrowserFetcher struct {
	timeout  time.Duration
	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewBrowserFetcher starts a shared Chrome allocator; timeout <= 0 uses a
// minute, since a cold browser needs far longer than a bare GET.
func NewBrowserFetcher(timeout time.Duration) *BrowserFetcher {
	if timeout <= 0 {
		timeout = time.Minute
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(browserHeaders["User-Agent"]),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserFetcher{
		timeout:  timeout,
		allocCtx: allocCtx,
		cancel:   cancel,
	}
}

// Close releases the browser allocator.
func (f *BrowserFetcher) Close() {
	if f.cancel != nil {
		f.cancel()
	}
}

// Fetch navigates to the page, waits for the squad table and returns the
// rendered document.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browserCtx, cancelTab := chromedp.NewContext(f.allocCtx)
	defer cancelTab()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, f.timeout)
	defer cancelTimeout()

	log.Printf("[browser] → rendering %s", url)

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("table.items", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", url, err)
	}
	if html == "" {
		return nil, fmt.Errorf("empty rendered page from %s", url)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing rendered document: %w", err)
	}
	return doc, nil
}
