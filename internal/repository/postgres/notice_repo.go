package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-notice-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type noticeRepo struct {
	db *pgxpool.Pool
}

func NewNoticeRepository(db *pgxpool.Pool) domain.NoticeRepository {
	return &noticeRepo{db: db}
}

// noticeColumns keeps the select list in one place; dates are rendered as
// YYYY-MM-DD text so the domain model stays free of time-zone concerns.
const noticeColumns = `
	id, source, title, content, link, target_dept,
	to_char(post_date, 'YYYY-MM-DD'),
	to_char(start_date, 'YYYY-MM-DD'),
	to_char(end_date, 'YYYY-MM-DD'),
	enriched_by_ai, created_at`

func scanNotice(row pgx.Row) (*domain.Notice, error) {
	var n domain.Notice
	err := row.Scan(
		&n.ID, &n.Source, &n.Title, &n.Content, &n.Link, &n.TargetDept,
		&n.PostDate, &n.StartDate, &n.EndDate, &n.EnrichedByAI, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// FindByTitle returns (nil, nil) when no notice holds the title. This is the
// dedup fast path for the crawler, so absence is not an error.
func (r *noticeRepo) FindByTitle(ctx context.Context, title string) (*domain.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices WHERE title = $1`
	n, err := scanNotice(r.db.QueryRow(ctx, query, title))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// InsertIgnoringConflict relies on the unique constraint on title to resolve
// races between concurrent inserts: the loser's conflict is absorbed and
// reported as (false, nil), never as an error.
func (r *noticeRepo) InsertIgnoringConflict(ctx context.Context, notice *domain.Notice) (bool, error) {
	query := `
		INSERT INTO notices (source, title, content, link, post_date)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::date)
		ON CONFLICT (title) DO NOTHING
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		notice.Source, notice.Title, notice.Content, notice.Link, notice.PostDate,
	).Scan(&notice.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *noticeRepo) UpdateEnrichment(ctx context.Context, id int64, startDate, endDate *string) error {
	query := `
		UPDATE notices
		SET start_date = $1::date, end_date = $2::date, enriched_by_ai = TRUE
		WHERE id = $3`
	_, err := r.db.Exec(ctx, query, startDate, endDate, id)
	return err
}

func (r *noticeRepo) ReadContent(ctx context.Context, id int64) (string, error) {
	var content string
	err := r.db.QueryRow(ctx, `SELECT content FROM notices WHERE id = $1`, id).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return content, nil
}

func (r *noticeRepo) FetchUnenriched(ctx context.Context, limit int) ([]domain.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices WHERE enriched_by_ai = FALSE ORDER BY id LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notices []domain.Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		notices = append(notices, *n)
	}
	return notices, rows.Err()
}

// BulkInsert wraps the whole batch in one transaction: a failure on any row
// rolls back everything. Title conflicts are absorbed, not failures.
func (r *noticeRepo) BulkInsert(ctx context.Context, inputs []domain.NoticeInput) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin bulk insert: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, in := range inputs {
		tag, err := tx.Exec(ctx, `
			INSERT INTO notices (source, title, content, link, post_date)
			VALUES ($1, $2, $3, $4, NULLIF($5, '')::date)
			ON CONFLICT (title) DO NOTHING`,
			in.Source, in.Title, in.Content, in.Link, in.PostDate,
		)
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", in.Title, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit bulk insert: %w", err)
	}
	return inserted, nil
}

func (r *noticeRepo) Fetch(ctx context.Context) ([]domain.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices ORDER BY post_date DESC NULLS LAST, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notices []domain.Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		notices = append(notices, *n)
	}
	return notices, rows.Err()
}

// FetchActive keeps the relevance window the recommendation list uses:
// posted within the last month and not past its end date (unknown windows
// stay visible). Department scoping admits untargeted notices; the literal
// "전체" and an empty dept both mean no scoping at all.
func (r *noticeRepo) FetchActive(ctx context.Context, dept string) ([]domain.Notice, error) {
	query := `SELECT ` + noticeColumns + `
		FROM notices
		WHERE (target_dept = $1 OR target_dept IS NULL OR $1 = '전체' OR $1 = '')
		  AND (end_date >= CURRENT_DATE OR end_date IS NULL)
		  AND post_date >= CURRENT_DATE - INTERVAL '1 month'
		ORDER BY post_date DESC, id DESC`
	rows, err := r.db.Query(ctx, query, dept)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notices []domain.Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		notices = append(notices, *n)
	}
	return notices, rows.Err()
}

// FetchWithRecommendations joins each notice with the given user's cached
// score, when one exists. Notices without a cached score come back with nil
// score/reason rather than being filtered out.
func (r *noticeRepo) FetchWithRecommendations(ctx context.Context, userID string) ([]domain.NoticeView, error) {
	query := `
		SELECT
			n.id, n.source, n.title, n.content, n.link, n.target_dept,
			to_char(n.post_date, 'YYYY-MM-DD'),
			to_char(n.start_date, 'YYYY-MM-DD'),
			to_char(n.end_date, 'YYYY-MM-DD'),
			n.enriched_by_ai, n.created_at,
			r.score, r.reason
		FROM notices n
		LEFT JOIN recommendations r
			ON r.notice_id = n.id AND r.user_id = $1
		ORDER BY n.post_date DESC NULLS LAST, n.id DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []domain.NoticeView
	for rows.Next() {
		var v domain.NoticeView
		if err := rows.Scan(
			&v.ID, &v.Source, &v.Title, &v.Content, &v.Link, &v.TargetDept,
			&v.PostDate, &v.StartDate, &v.EndDate, &v.EnrichedByAI, &v.CreatedAt,
			&v.Score, &v.Reason,
		); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
