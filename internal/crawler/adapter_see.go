package crawler

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-notice-backend/internal/domain"
)

// seeAdapter covers the School of Electronic Engineering board. Its table
// has no date class; the date sits in the fourth cell and must already look
// like an ISO date, which filters out notice-count and separator rows.
type seeAdapter struct{}

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func NewSEEAdapter() SourceAdapter { return &seeAdapter{} }

func (a *seeAdapter) Source() string { return "전자공학부" }

func (a *seeAdapter) CanHandle(seedURL string) bool {
	return strings.Contains(seedURL, "see.knu.ac.kr")
}

func (a *seeAdapter) ExtractList(doc *goquery.Document, pageURL string) []domain.CandidateItem {
	var items []domain.CandidateItem
	doc.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		subject := row.Find("td.left a").First()
		cells := row.Find("td")
		if subject.Length() == 0 || cells.Length() < 4 {
			return
		}

		dateText := strings.TrimSpace(cells.Eq(3).Text())
		if !isoDatePattern.MatchString(dateText) {
			return
		}

		href, _ := subject.Attr("href")
		items = append(items, domain.CandidateItem{
			Title:       strings.TrimSpace(subject.Text()),
			Link:        resolveLink(pageURL, href),
			RawDateText: dateText,
			Source:      a.Source(),
		})
	})
	return items
}

func (a *seeAdapter) ExtractDetail(doc *goquery.Document) string {
	return containerText(doc, ".contentview")
}
