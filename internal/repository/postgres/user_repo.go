package postgres

import (
	"context"
	"errors"

	"go-notice-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

// GetProfile reads the scoring-relevant slice of a user row. Account
// management lives in the auth service; this repo never writes identity.
func (r *userRepo) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	query := `
		SELECT
			id, COALESCE(grade, 0), COALESCE(department, ''),
			COALESCE(experience_summary, ''), COALESCE(keywords, '{}')
		FROM users
		WHERE id = $1`

	var p domain.UserProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.Grade, &p.Department, &p.ExperienceSummary, pq.Array(&p.Keywords),
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *userRepo) UpdateKeywords(ctx context.Context, userID string, keywords []string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET keywords = $1 WHERE id = $2`,
		pq.Array(keywords), userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
