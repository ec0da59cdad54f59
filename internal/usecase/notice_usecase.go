package usecase

import (
	"context"
	"fmt"

	"go-notice-backend/internal/domain"
	"go-notice-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type noticeUsecase struct {
	noticeRepo domain.NoticeRepository
	userRepo   domain.UserRepository
	validate   *validator.Validate
}

func NewNoticeUsecase(noticeRepo domain.NoticeRepository, userRepo domain.UserRepository, validate *validator.Validate) domain.NoticeUsecase {
	return &noticeUsecase{
		noticeRepo: noticeRepo,
		userRepo:   userRepo,
		validate:   validate,
	}
}

// IngestBulk stores a batch of externally supplied notices in a single
// transaction. Duplicate titles inside or across batches are absorbed, but
// any real failure rolls back the whole batch.
func (u *noticeUsecase) IngestBulk(ctx context.Context, inputs []domain.NoticeInput) (int, error) {
	if len(inputs) == 0 {
		return 0, apperror.BadRequest("No notices to ingest")
	}
	for i, in := range inputs {
		if err := u.validate.Struct(in); err != nil {
			return 0, apperror.BadRequest(fmt.Sprintf("Invalid notice at index %d: %v", i, err))
		}
	}

	count, err := u.noticeRepo.BulkInsert(ctx, inputs)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return count, nil
}

// ListNotices returns all notices newest first. When a user is given, each
// notice carries that user's cached recommendation data where it exists.
func (u *noticeUsecase) ListNotices(ctx context.Context, userID string) ([]domain.NoticeView, error) {
	if userID != "" {
		views, err := u.noticeRepo.FetchWithRecommendations(ctx, userID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		return views, nil
	}

	notices, err := u.noticeRepo.Fetch(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	views := make([]domain.NoticeView, 0, len(notices))
	for _, n := range notices {
		views = append(views, domain.NoticeView{Notice: n})
	}
	return views, nil
}

func (u *noticeUsecase) UpdateKeywords(ctx context.Context, userID string, keywords []string) error {
	if userID == "" {
		return apperror.BadRequest("user_id is required")
	}
	if err := u.userRepo.UpdateKeywords(ctx, userID, keywords); err != nil {
		if err == domain.ErrNotFound {
			return apperror.NotFound("User not found")
		}
		return apperror.Internal(err)
	}
	return nil
}
