package crawler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultFetchTimeout = 30 * time.Second

// PageFetcher loads a URL and hands back the parsed document. The crawler
// depends on this interface so tests can feed fixture HTML instead of
// hitting real boards.
type PageFetcher interface {
	FetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error)
}

// HTTPFetcher fetches pages with a shared HTTP client and a hard timeout
// per request. A timeout terminates only that page load; the orchestrator
// decides what the failure costs (a seed or a single item).
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: "notice-backend-crawler/1.0",
	}
}

func (f *HTTPFetcher) FetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}
