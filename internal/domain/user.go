package domain

import "context"

// UserProfile holds the slice of user state the pipeline reads. Grade,
// Department and ExperienceSummary are the only fields that feed
// recommendation scoring; the account itself is owned by the auth service.
type UserProfile struct {
	ID                string   `json:"id"`
	Grade             int      `json:"grade"`
	Department        string   `json:"department"`
	ExperienceSummary string   `json:"experience_summary"`
	Keywords          []string `json:"keywords,omitempty"`
}

type UserRepository interface {
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	UpdateKeywords(ctx context.Context, userID string, keywords []string) error
}
