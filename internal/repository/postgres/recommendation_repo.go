package postgres

import (
	"context"
	"errors"

	"go-notice-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type recommendationRepo struct {
	db *pgxpool.Pool
}

func NewRecommendationRepository(db *pgxpool.Pool) domain.RecommendationRepository {
	return &recommendationRepo{db: db}
}

// Get returns (nil, nil) when no record exists: an empty cache slot is a
// normal state for the usecase, not an error.
func (r *recommendationRepo) Get(ctx context.Context, userID string, noticeID int64) (*domain.RecommendationRecord, error) {
	query := `
		SELECT user_id, notice_id, score, reason, profile_fingerprint, computed_at
		FROM recommendations
		WHERE user_id = $1 AND notice_id = $2`

	var rec domain.RecommendationRecord
	err := r.db.QueryRow(ctx, query, userID, noticeID).Scan(
		&rec.UserID, &rec.NoticeID, &rec.Score, &rec.Reason,
		&rec.ProfileFingerprint, &rec.ComputedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recommendationRepo) Delete(ctx context.Context, userID string, noticeID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM recommendations WHERE user_id = $1 AND notice_id = $2`,
		userID, noticeID,
	)
	return err
}

// Write upserts on the composite key. Two racing computations for the same
// stale slot both succeed; the later write wins.
func (r *recommendationRepo) Write(ctx context.Context, rec *domain.RecommendationRecord) error {
	query := `
		INSERT INTO recommendations (user_id, notice_id, score, reason, profile_fingerprint, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, notice_id) DO UPDATE SET
			score = EXCLUDED.score,
			reason = EXCLUDED.reason,
			profile_fingerprint = EXCLUDED.profile_fingerprint,
			computed_at = EXCLUDED.computed_at`
	_, err := r.db.Exec(ctx, query,
		rec.UserID, rec.NoticeID, rec.Score, rec.Reason,
		rec.ProfileFingerprint, rec.ComputedAt,
	)
	return err
}
