package crawler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-notice-backend/internal/domain"
)

// academicAdapter covers the university-wide academic notice board (wbbs).
// Its rows expose no real link, only a JS action reference carrying the
// board division and bulletin number as quoted arguments; the adapter
// decodes those and synthesizes the canonical view URL.
type academicAdapter struct{}

var quotedArgPattern = regexp.MustCompile(`'([^']*)'`)

func NewAcademicAdapter() SourceAdapter { return &academicAdapter{} }

func (a *academicAdapter) Source() string { return "경북대 학사공지" }

func (a *academicAdapter) CanHandle(seedURL string) bool {
	return strings.Contains(seedURL, "knu.ac.kr/wbbs")
}

func (a *academicAdapter) ExtractList(doc *goquery.Document, pageURL string) []domain.CandidateItem {
	var items []domain.CandidateItem
	doc.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		subject := row.Find(".subject a").First()
		date := row.Find(".date").First()
		if subject.Length() == 0 || date.Length() == 0 {
			return
		}

		rawHref, _ := subject.Attr("href")
		items = append(items, domain.CandidateItem{
			Title:       strings.TrimSpace(subject.Text()),
			Link:        a.viewURL(pageURL, rawHref),
			RawDateText: strings.TrimSpace(date.Text()),
			Source:      a.Source(),
		})
	})
	return items
}

// viewURL reconstructs the detail URL from a JS href like
// javascript:viewBtin('bbs','stu','5678'). The quoted arguments are
// bbs_cde, note_div and bltn_no in order; anything else falls back to
// plain link resolution.
func (a *academicAdapter) viewURL(pageURL, rawHref string) string {
	args := quotedArgPattern.FindAllStringSubmatch(rawHref, -1)
	if len(args) < 3 {
		return resolveLink(pageURL, rawHref)
	}
	bbsCde := args[0][1]
	noteDiv := args[1][1]
	bltnNo := args[2][1]
	return fmt.Sprintf(
		"https://www.knu.ac.kr/wbbs/wbbs/bbs/btin/stdViewBtin.action?search_type=&search_text=&popupDeco=&note_div=%s&bltn_no=%s&menu_idx=42&bbs_cde=%s",
		noteDiv, bltnNo, bbsCde,
	)
}

func (a *academicAdapter) ExtractDetail(doc *goquery.Document) string {
	return containerText(doc, ".board_cont")
}
