package crawler_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go-notice-backend/internal/crawler"
	"go-notice-backend/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves canned HTML per URL; unknown URLs fail like a dead
// server would.
type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) FetchDocument(_ context.Context, pageURL string) (*goquery.Document, error) {
	html, ok := f.pages[pageURL]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// fakeNoticeStore is an in-memory title-keyed store so tests can observe
// dedup across repeated runs.
type fakeNoticeStore struct {
	mu      sync.Mutex
	byTitle map[string]*domain.Notice
	nextID  int64

	failInsertTitle string
}

func newFakeNoticeStore() *fakeNoticeStore {
	return &fakeNoticeStore{byTitle: map[string]*domain.Notice{}}
}

func (s *fakeNoticeStore) FindByTitle(_ context.Context, title string) (*domain.Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byTitle[title], nil
}

func (s *fakeNoticeStore) InsertIgnoringConflict(_ context.Context, notice *domain.Notice) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if notice.Title == s.failInsertTitle && s.failInsertTitle != "" {
		return false, errors.New("insert rejected")
	}
	if _, exists := s.byTitle[notice.Title]; exists {
		return false, nil
	}
	s.nextID++
	notice.ID = s.nextID
	stored := *notice
	s.byTitle[notice.Title] = &stored
	return true, nil
}

func (s *fakeNoticeStore) UpdateEnrichment(_ context.Context, id int64, startDate, endDate *string) error {
	return nil
}

func (s *fakeNoticeStore) ReadContent(_ context.Context, id int64) (string, error) {
	return "", domain.ErrNotFound
}

func (s *fakeNoticeStore) FetchUnenriched(_ context.Context, limit int) ([]domain.Notice, error) {
	return nil, nil
}

func (s *fakeNoticeStore) BulkInsert(_ context.Context, inputs []domain.NoticeInput) (int, error) {
	return 0, nil
}

func (s *fakeNoticeStore) Fetch(_ context.Context) ([]domain.Notice, error) { return nil, nil }

func (s *fakeNoticeStore) FetchActive(_ context.Context, dept string) ([]domain.Notice, error) {
	return nil, nil
}

func (s *fakeNoticeStore) FetchWithRecommendations(_ context.Context, userID string) ([]domain.NoticeView, error) {
	return nil, nil
}

// countingLimiter records how often the crawl paused between detail fetches.
type countingLimiter struct {
	waits int
}

func (l *countingLimiter) Wait(context.Context) error {
	l.waits++
	return nil
}

const seeListingURL = "https://see.knu.ac.kr/content/board/notice.html"

func seeListing(rows ...string) string {
	return `<table><tbody>` + strings.Join(rows, "") + `</tbody></table>`
}

func seeRow(no, title, date string) string {
	return `<tr><td>일반</td><td class="left"><a href="/content/board/view.html?no=` + no + `">` +
		title + `</a></td><td>admin</td><td>` + date + `</td></tr>`
}

func TestOrchestratorRun(t *testing.T) {
	listing := seeListing(
		seeRow("1", "장학생 선발 공고", "2026-08-27"),
		seeRow("2", "학부연구생 모집", "2026-08-26"),
	)
	pages := map[string]string{
		seeListingURL: listing,
		"https://see.knu.ac.kr/content/board/view.html?no=1": `<div class="contentview">장학금 신청 안내 본문</div>`,
		"https://see.knu.ac.kr/content/board/view.html?no=2": `<div class="contentview">연구실 지원 방법</div>`,
	}

	t.Run("Should insert every new notice with normalized dates", func(t *testing.T) {
		store := newFakeNoticeStore()
		o := crawler.NewOrchestrator(crawler.DefaultRegistry(), &fakeFetcher{pages: pages}, store, nil, crawler.NoDelay{})

		summary := o.Run(context.Background(), []string{seeListingURL})
		assert.Equal(t, 2, summary.Inserted)
		assert.Equal(t, 0, summary.Duplicates)
		assert.Equal(t, 0, summary.Failed)

		stored, err := store.FindByTitle(context.Background(), "장학생 선발 공고")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "장학금 신청 안내 본문", stored.Content)
		assert.Equal(t, "2026-08-27", stored.PostDate)
		assert.Equal(t, "전자공학부", stored.Source)
	})

	t.Run("Should count repeat titles as duplicates without refetching them", func(t *testing.T) {
		store := newFakeNoticeStore()
		fetcher := &fakeFetcher{pages: pages}
		o := crawler.NewOrchestrator(crawler.DefaultRegistry(), fetcher, store, nil, crawler.NoDelay{})

		first := o.Run(context.Background(), []string{seeListingURL})
		assert.Equal(t, 2, first.Inserted)

		second := o.Run(context.Background(), []string{seeListingURL})
		assert.Equal(t, 0, second.Inserted)
		assert.Equal(t, 2, second.Duplicates)
	})

	t.Run("Should skip seeds no adapter owns", func(t *testing.T) {
		store := newFakeNoticeStore()
		o := crawler.NewOrchestrator(crawler.DefaultRegistry(), &fakeFetcher{pages: pages}, store, nil, crawler.NoDelay{})

		summary := o.Run(context.Background(), []string{"https://example.com/board", seeListingURL})
		assert.Equal(t, 2, summary.Inserted)
	})

	t.Run("Should pace after every detail fetch but never after a dedup skip", func(t *testing.T) {
		store := newFakeNoticeStore()
		limiter := &countingLimiter{}
		failing := map[string]string{
			seeListingURL: seeListing(
				seeRow("1", "장학생 선발 공고", "2026-08-27"),
				seeRow("404", "죽은 링크 공지", "2026-08-26"),
			),
			"https://see.knu.ac.kr/content/board/view.html?no=1": `<div class="contentview">본문</div>`,
		}
		o := crawler.NewOrchestrator(crawler.DefaultRegistry(), &fakeFetcher{pages: failing}, store, nil, limiter)

		o.Run(context.Background(), []string{seeListingURL})
		// One delay per detail fetch attempt, failed fetch included.
		assert.Equal(t, 2, limiter.waits)

		o.Run(context.Background(), []string{seeListingURL})
		// Second run: the stored title is a dedup skip (no fetch, no
		// delay); the dead link is fetched again.
		assert.Equal(t, 3, limiter.waits)
	})

	t.Run("Should isolate a dead listing page to its own source", func(t *testing.T) {
		store := newFakeNoticeStore()
		o := crawler.NewOrchestrator(crawler.DefaultRegistry(), &fakeFetcher{pages: pages}, store, nil, crawler.NoDelay{})

		// The CSE seed has no canned page, so its listing load fails.
		summary := o.Run(context.Background(), []string{
			"https://cse.knu.ac.kr/bbs/board.php?bo_table=sub5_1",
			seeListingURL,
		})
		assert.Equal(t, 2, summary.Inserted)
	})
}

func TestOrchestratorItemFailures(t *testing.T) {
	t.Run("Should keep going when one detail fetch fails", func(t *testing.T) {
		pages := map[string]string{
			seeListingURL: seeListing(
				seeRow("1", "정상 공지", "2026-08-27"),
				seeRow("404", "죽은 링크 공지", "2026-08-26"),
				seeRow("2", "또 다른 정상 공지", "2026-08-25"),
			),
			"https://see.knu.ac.kr/content/board/view.html?no=1": `<div class="contentview">본문 1</div>`,
			"https://see.knu.ac.kr/content/board/view.html?no=2": `<div class="contentview">본문 2</div>`,
		}
		store := newFakeNoticeStore()
		o := crawler.NewOrchestrator(crawler.DefaultRegistry(), &fakeFetcher{pages: pages}, store, nil, crawler.NoDelay{})

		summary := o.Run(context.Background(), []string{seeListingURL})
		assert.Equal(t, 2, summary.Inserted)
		assert.Equal(t, 1, summary.Failed)
	})

	t.Run("Should count a rejected insert as failed, not fatal", func(t *testing.T) {
		pages := map[string]string{
			seeListingURL: seeListing(
				seeRow("1", "거부되는 공지", "2026-08-27"),
				seeRow("2", "통과되는 공지", "2026-08-26"),
			),
			"https://see.knu.ac.kr/content/board/view.html?no=1": `<div class="contentview">본문</div>`,
			"https://see.knu.ac.kr/content/board/view.html?no=2": `<div class="contentview">본문</div>`,
		}
		store := newFakeNoticeStore()
		store.failInsertTitle = "거부되는 공지"
		o := crawler.NewOrchestrator(crawler.DefaultRegistry(), &fakeFetcher{pages: pages}, store, nil, crawler.NoDelay{})

		summary := o.Run(context.Background(), []string{seeListingURL})
		assert.Equal(t, 1, summary.Inserted)
		assert.Equal(t, 1, summary.Failed)
	})

	t.Run("Should still insert the notice when the detail page has no content container", func(t *testing.T) {
		pages := map[string]string{
			seeListingURL: seeListing(seeRow("1", "빈 본문 공지", "2026-08-27")),
			"https://see.knu.ac.kr/content/board/view.html?no=1": ``,
		}
		store := newFakeNoticeStore()
		o := crawler.NewOrchestrator(crawler.DefaultRegistry(), &fakeFetcher{pages: pages}, store, nil, crawler.NoDelay{})

		summary := o.Run(context.Background(), []string{seeListingURL})
		assert.Equal(t, 1, summary.Inserted)

		stored, _ := store.FindByTitle(context.Background(), "빈 본문 공지")
		require.NotNil(t, stored)
		assert.Equal(t, "", stored.Content)
	})
}
