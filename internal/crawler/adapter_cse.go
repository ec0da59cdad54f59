package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-notice-backend/internal/domain"
)

// cseAdapter covers the School of Computer Science & Engineering board
// (gnuboard markup: .bo_tit titles, .td_date or .td_datetime dates).
type cseAdapter struct{}

func NewCSEAdapter() SourceAdapter { return &cseAdapter{} }

func (a *cseAdapter) Source() string { return "컴퓨터학부" }

func (a *cseAdapter) CanHandle(seedURL string) bool {
	return strings.Contains(seedURL, "cse.knu.ac.kr")
}

func (a *cseAdapter) ExtractList(doc *goquery.Document, pageURL string) []domain.CandidateItem {
	var items []domain.CandidateItem
	doc.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		subject := row.Find(".bo_tit a").First()
		date := row.Find(".td_date").First()
		if date.Length() == 0 {
			date = row.Find(".td_datetime").First()
		}
		if subject.Length() == 0 || date.Length() == 0 {
			return
		}

		href, _ := subject.Attr("href")
		items = append(items, domain.CandidateItem{
			Title:       strings.TrimSpace(subject.Text()),
			Link:        resolveLink(pageURL, href),
			RawDateText: strings.TrimSpace(date.Text()),
			Source:      a.Source(),
		})
	})
	return items
}

func (a *cseAdapter) ExtractDetail(doc *goquery.Document) string {
	return containerText(doc, "#bo_v_con")
}
