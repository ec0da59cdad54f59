// Package crawler contains the per-source extraction adapters and the
// orchestrator that drives them over a set of seed listing pages.
package crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-notice-backend/internal/domain"
)

// ContentUnavailable is stored as the notice body when detail extraction
// fails, so the notice shell is still persisted with a visible marker.
const ContentUnavailable = "본문 로딩 실패"

// SourceAdapter absorbs all site-specific brittleness behind a uniform
// contract. Adapters are pure transformations over a parsed page: no
// network, no storage.
type SourceAdapter interface {
	// Source names the adapter for logging and the Notice.Source column.
	Source() string

	// CanHandle reports whether this adapter owns the given seed URL.
	// Selection is by URL pattern, never by content sniffing.
	CanHandle(seedURL string) bool

	// ExtractList scans the listing document and returns candidate items.
	// Rows missing either a title or a date element are skipped; this is
	// the primary noise filter for header and separator rows.
	ExtractList(doc *goquery.Document, pageURL string) []domain.CandidateItem

	// ExtractDetail returns the main text of a detail document, preferring
	// the source's content container and falling back to whole-page text.
	// It returns ContentUnavailable instead of failing.
	ExtractDetail(doc *goquery.Document) string
}

// Registry is an ordered list of adapters; the first CanHandle match wins.
type Registry struct {
	adapters []SourceAdapter
}

func NewRegistry(adapters ...SourceAdapter) *Registry {
	return &Registry{adapters: adapters}
}

// DefaultRegistry wires every known source adapter.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewCSEAdapter(),
		NewAcademicAdapter(),
		NewAICAdapter(),
		NewSEEAdapter(),
	)
}

// Select returns the adapter owning the seed URL, or nil when no adapter
// matches (the orchestrator skips such seeds, never fails on them).
func (r *Registry) Select(seedURL string) SourceAdapter {
	for _, a := range r.adapters {
		if a.CanHandle(seedURL) {
			return a
		}
	}
	return nil
}

// resolveLink makes href absolute against the page URL. Unparseable inputs
// come back unchanged; the fetch for them fails later and is isolated there.
func resolveLink(pageURL, href string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// containerText is the shared detail-extraction rule: the source's content
// selector when present, whole-page text otherwise.
func containerText(doc *goquery.Document, selector string) string {
	if doc == nil {
		return ContentUnavailable
	}
	if sel := doc.Find(selector); sel.Length() > 0 {
		return strings.TrimSpace(sel.First().Text())
	}
	return strings.TrimSpace(doc.Find("body").Text())
}
