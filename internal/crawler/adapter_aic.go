package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-notice-backend/internal/domain"
)

// aicAdapter covers the College of AI Convergence board. Same row shape as
// the academic board but with direct links; rows with an empty title text
// (icon-only pinned rows) are skipped.
type aicAdapter struct{}

func NewAICAdapter() SourceAdapter { return &aicAdapter{} }

func (a *aicAdapter) Source() string { return "AI융합대학" }

func (a *aicAdapter) CanHandle(seedURL string) bool {
	return strings.Contains(seedURL, "home.knu.ac.kr/HOME/aic")
}

func (a *aicAdapter) ExtractList(doc *goquery.Document, pageURL string) []domain.CandidateItem {
	var items []domain.CandidateItem
	doc.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		subject := row.Find(".subject a").First()
		date := row.Find(".date").First()
		if subject.Length() == 0 || date.Length() == 0 {
			return
		}

		title := strings.TrimSpace(subject.Text())
		if title == "" {
			return
		}

		href, _ := subject.Attr("href")
		items = append(items, domain.CandidateItem{
			Title:       title,
			Link:        resolveLink(pageURL, href),
			RawDateText: strings.TrimSpace(date.Text()),
			Source:      a.Source(),
		})
	})
	return items
}

func (a *aicAdapter) ExtractDetail(doc *goquery.Document) string {
	return containerText(doc, ".cont")
}
