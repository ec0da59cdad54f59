package domain

import (
	"context"
	"time"
)

// Recommendation origins
const (
	OriginCache = "cache"
	OriginFresh = "fresh"
)

// RecommendationRecord is one cached (user, notice) score. It is valid cache
// evidence only while ProfileFingerprint equals the current fingerprint of
// the owning user's profile.
type RecommendationRecord struct {
	UserID             string    `json:"user_id"`
	NoticeID           int64     `json:"notice_id"`
	Score              int       `json:"score"`
	Reason             string    `json:"reason"`
	ProfileFingerprint string    `json:"-"`
	ComputedAt         time.Time `json:"computed_at"`
}

// RecommendationResult is what GetOrCompute returns: the score plus whether
// it was served from storage or freshly computed.
type RecommendationResult struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
	Origin string `json:"origin"`
}

type RecommendationRepository interface {
	Get(ctx context.Context, userID string, noticeID int64) (*RecommendationRecord, error)
	Delete(ctx context.Context, userID string, noticeID int64) error
	// Write upserts on (user_id, notice_id); concurrent racers never error
	// and the newest validated score stands.
	Write(ctx context.Context, record *RecommendationRecord) error
}

type RecommendationUsecase interface {
	GetOrCompute(ctx context.Context, userID string, noticeID int64) (*RecommendationResult, error)
	Invalidate(ctx context.Context, userID string, noticeID int64) error
	// ListRelevant returns still-active notices for a user, scoped to a
	// department (the user's own when none is given) and filtered by the
	// given keywords (the user's stored keywords when none are given).
	ListRelevant(ctx context.Context, userID, dept string, keywords []string) ([]Notice, error)
}
