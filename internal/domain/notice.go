package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

// Notice is one crawled announcement. Title is the natural key: two crawls
// producing the same title never produce two rows.
type Notice struct {
	ID           int64      `json:"id"`
	Source       string     `json:"source"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Link         string     `json:"link"`
	TargetDept   *string    `json:"target_dept,omitempty"`
	PostDate     string     `json:"post_date"`
	StartDate    *string    `json:"start_date"`
	EndDate      *string    `json:"end_date"`
	EnrichedByAI bool       `json:"enriched_by_ai"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// CandidateItem is an ephemeral listing-page entry produced by an adapter.
// It only lives inside one crawl pass and is never persisted directly.
type CandidateItem struct {
	Title       string
	Link        string
	RawDateText string
	Source      string
}

// NoticeInput is one element of a bulk ingest request.
type NoticeInput struct {
	Source   string `json:"source"`
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content"`
	Link     string `json:"link" validate:"omitempty,url"`
	PostDate string `json:"post_date" validate:"omitempty,datetime=2006-01-02"`
}

// NoticeView is a notice joined with the requesting user's recommendation
// data when a user is specified (nil fields otherwise).
type NoticeView struct {
	Notice
	Score  *int    `json:"score,omitempty"`
	Reason *string `json:"reason,omitempty"`
}

type NoticeRepository interface {
	FindByTitle(ctx context.Context, title string) (*Notice, error)
	// InsertIgnoringConflict inserts the notice unless another row already
	// holds its title. Returns (false, nil) when the conflict was absorbed.
	InsertIgnoringConflict(ctx context.Context, notice *Notice) (bool, error)
	UpdateEnrichment(ctx context.Context, id int64, startDate, endDate *string) error
	ReadContent(ctx context.Context, id int64) (string, error)
	FetchUnenriched(ctx context.Context, limit int) ([]Notice, error)
	BulkInsert(ctx context.Context, inputs []NoticeInput) (int, error)
	Fetch(ctx context.Context) ([]Notice, error)
	// FetchActive returns recent notices whose validity window is still
	// open (or unknown), newest first. A non-empty dept keeps only notices
	// targeting that department or targeting everyone.
	FetchActive(ctx context.Context, dept string) ([]Notice, error)
	FetchWithRecommendations(ctx context.Context, userID string) ([]NoticeView, error)
}

type NoticeUsecase interface {
	IngestBulk(ctx context.Context, inputs []NoticeInput) (int, error)
	ListNotices(ctx context.Context, userID string) ([]NoticeView, error)
	UpdateKeywords(ctx context.Context, userID string, keywords []string) error
}

// Enricher infers a notice's validity window from its content and commits
// only structurally valid results.
type Enricher interface {
	Enrich(ctx context.Context, notice *Notice) error
	EnrichPending(ctx context.Context) error
}
