package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go-notice-backend/internal/domain"
	"go-notice-backend/internal/usecase"
	"go-notice-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock Repositories

type MockNoticeRepo struct {
	mock.Mock
}

func (m *MockNoticeRepo) FindByTitle(ctx context.Context, title string) (*domain.Notice, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notice), args.Error(1)
}

func (m *MockNoticeRepo) InsertIgnoringConflict(ctx context.Context, notice *domain.Notice) (bool, error) {
	args := m.Called(ctx, notice)
	return args.Bool(0), args.Error(1)
}

func (m *MockNoticeRepo) UpdateEnrichment(ctx context.Context, id int64, startDate, endDate *string) error {
	return m.Called(ctx, id, startDate, endDate).Error(0)
}

func (m *MockNoticeRepo) ReadContent(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockNoticeRepo) FetchUnenriched(ctx context.Context, limit int) ([]domain.Notice, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notice), args.Error(1)
}

func (m *MockNoticeRepo) BulkInsert(ctx context.Context, inputs []domain.NoticeInput) (int, error) {
	args := m.Called(ctx, inputs)
	return args.Int(0), args.Error(1)
}

func (m *MockNoticeRepo) Fetch(ctx context.Context) ([]domain.Notice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notice), args.Error(1)
}

func (m *MockNoticeRepo) FetchActive(ctx context.Context, dept string) ([]domain.Notice, error) {
	args := m.Called(ctx, dept)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notice), args.Error(1)
}

func (m *MockNoticeRepo) FetchWithRecommendations(ctx context.Context, userID string) ([]domain.NoticeView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NoticeView), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockUserRepo) UpdateKeywords(ctx context.Context, userID string, keywords []string) error {
	return m.Called(ctx, userID, keywords).Error(0)
}

type MockRecommendationRepo struct {
	mock.Mock
}

func (m *MockRecommendationRepo) Get(ctx context.Context, userID string, noticeID int64) (*domain.RecommendationRecord, error) {
	args := m.Called(ctx, userID, noticeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecommendationRecord), args.Error(1)
}

func (m *MockRecommendationRepo) Delete(ctx context.Context, userID string, noticeID int64) error {
	return m.Called(ctx, userID, noticeID).Error(0)
}

func (m *MockRecommendationRepo) Write(ctx context.Context, record *domain.RecommendationRecord) error {
	return m.Called(ctx, record).Error(0)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func appErrCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr), "expected *apperror.AppError, got %T", err)
	return appErr.Code
}

func TestProfileFingerprint(t *testing.T) {
	base := &domain.UserProfile{Grade: 3, Department: "컴퓨터공학과", ExperienceSummary: "백엔드 동아리"}

	t.Run("Should be deterministic for equal field values", func(t *testing.T) {
		other := &domain.UserProfile{Grade: 3, Department: "컴퓨터공학과", ExperienceSummary: "백엔드 동아리"}
		assert.Equal(t, usecase.ProfileFingerprint(base), usecase.ProfileFingerprint(other))
	})

	t.Run("Should change when any field changes", func(t *testing.T) {
		grade := *base
		grade.Grade = 4
		dept := *base
		dept.Department = "전자공학과"
		exp := *base
		exp.ExperienceSummary = "백엔드 동아리, 인턴"

		fp := usecase.ProfileFingerprint(base)
		assert.NotEqual(t, fp, usecase.ProfileFingerprint(&grade))
		assert.NotEqual(t, fp, usecase.ProfileFingerprint(&dept))
		assert.NotEqual(t, fp, usecase.ProfileFingerprint(&exp))
	})

	t.Run("Should not let adjacent fields bleed into each other", func(t *testing.T) {
		a := &domain.UserProfile{Grade: 1, Department: "ab", ExperienceSummary: "c"}
		b := &domain.UserProfile{Grade: 1, Department: "a", ExperienceSummary: "bc"}
		assert.NotEqual(t, usecase.ProfileFingerprint(a), usecase.ProfileFingerprint(b))
	})
}

func TestGetOrComputeCacheHit(t *testing.T) {
	userRepo := new(MockUserRepo)
	noticeRepo := new(MockNoticeRepo)
	recRepo := new(MockRecommendationRepo)
	gen := new(MockGenerator)
	uc := usecase.NewRecommendationUsecase(userRepo, noticeRepo, recRepo, gen)

	profile := &domain.UserProfile{ID: "user1", Grade: 3, Department: "컴퓨터공학과", ExperienceSummary: "백엔드 동아리"}
	userRepo.On("GetProfile", mock.Anything, "user1").Return(profile, nil)
	recRepo.On("Get", mock.Anything, "user1", int64(7)).Return(&domain.RecommendationRecord{
		UserID:             "user1",
		NoticeID:           7,
		Score:              85,
		Reason:             "직무 적합성이 높음",
		ProfileFingerprint: usecase.ProfileFingerprint(profile),
	}, nil)

	result, err := uc.GetOrCompute(context.Background(), "user1", 7)
	assert.NoError(t, err)
	assert.Equal(t, 85, result.Score)
	assert.Equal(t, domain.OriginCache, result.Origin)

	// A valid cache hit must not touch the model or the notice body.
	gen.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything)
	noticeRepo.AssertNotCalled(t, "ReadContent", mock.Anything, mock.Anything)
}

func TestGetOrComputeStaleFingerprint(t *testing.T) {
	userRepo := new(MockUserRepo)
	noticeRepo := new(MockNoticeRepo)
	recRepo := new(MockRecommendationRepo)
	gen := new(MockGenerator)
	uc := usecase.NewRecommendationUsecase(userRepo, noticeRepo, recRepo, gen)

	profile := &domain.UserProfile{ID: "user1", Grade: 4, Department: "컴퓨터공학과", ExperienceSummary: "백엔드 동아리"}
	userRepo.On("GetProfile", mock.Anything, "user1").Return(profile, nil)
	recRepo.On("Get", mock.Anything, "user1", int64(7)).Return(&domain.RecommendationRecord{
		UserID:             "user1",
		NoticeID:           7,
		Score:              85,
		Reason:             "이전 프로필 기준",
		ProfileFingerprint: "stale-fingerprint",
	}, nil)
	recRepo.On("Delete", mock.Anything, "user1", int64(7)).Return(nil)
	noticeRepo.On("ReadContent", mock.Anything, int64(7)).Return("SW 마에스트로 모집", nil)
	gen.On("GenerateText", mock.Anything, mock.Anything).Return(`{"score": 72, "reason": "4학년에게 적합한 기회"}`, nil)
	recRepo.On("Write", mock.Anything, mock.AnythingOfType("*domain.RecommendationRecord")).Return(nil).Run(func(args mock.Arguments) {
		rec := args.Get(1).(*domain.RecommendationRecord)
		assert.Equal(t, usecase.ProfileFingerprint(profile), rec.ProfileFingerprint)
		assert.Equal(t, 72, rec.Score)
	})

	result, err := uc.GetOrCompute(context.Background(), "user1", 7)
	assert.NoError(t, err)
	assert.Equal(t, 72, result.Score)
	assert.Equal(t, domain.OriginFresh, result.Origin)

	recRepo.AssertCalled(t, "Delete", mock.Anything, "user1", int64(7))
}

func TestGetOrComputeColdCache(t *testing.T) {
	userRepo := new(MockUserRepo)
	noticeRepo := new(MockNoticeRepo)
	recRepo := new(MockRecommendationRepo)
	gen := new(MockGenerator)
	uc := usecase.NewRecommendationUsecase(userRepo, noticeRepo, recRepo, gen)

	profile := &domain.UserProfile{ID: "user1", Grade: 2, Department: "전자공학과"}
	userRepo.On("GetProfile", mock.Anything, "user1").Return(profile, nil)
	recRepo.On("Get", mock.Anything, "user1", int64(3)).Return(nil, nil)
	noticeRepo.On("ReadContent", mock.Anything, int64(3)).Return("학부연구생 모집 공고", nil)
	// Model output wrapped in prose still parses via the embedded object.
	gen.On("GenerateText", mock.Anything, mock.Anything).Return(
		"분석 결과입니다:\n```json\n{\"score\": 90, \"reason\": \"전공과 직결된 연구 기회\"}\n```", nil)
	recRepo.On("Write", mock.Anything, mock.AnythingOfType("*domain.RecommendationRecord")).Return(nil)

	result, err := uc.GetOrCompute(context.Background(), "user1", 3)
	assert.NoError(t, err)
	assert.Equal(t, 90, result.Score)
	assert.Equal(t, "전공과 직결된 연구 기회", result.Reason)
	assert.Equal(t, domain.OriginFresh, result.Origin)
}

func TestGetOrComputeScoreValidation(t *testing.T) {
	cases := []struct {
		name   string
		output string
	}{
		{"no JSON object at all", "죄송합니다. 점수를 매길 수 없습니다."},
		{"malformed JSON", `{"score": 80, "reason": `},
		{"fractional score", `{"score": 72.5, "reason": "소수점 점수"}`},
		{"score above range", `{"score": 150, "reason": "범위 초과"}`},
		{"negative score", `{"score": -5, "reason": "음수 점수"}`},
		{"blank reason", `{"score": 80, "reason": "   "}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			userRepo := new(MockUserRepo)
			noticeRepo := new(MockNoticeRepo)
			recRepo := new(MockRecommendationRepo)
			gen := new(MockGenerator)
			uc := usecase.NewRecommendationUsecase(userRepo, noticeRepo, recRepo, gen)

			userRepo.On("GetProfile", mock.Anything, "user1").Return(&domain.UserProfile{ID: "user1", Grade: 3}, nil)
			recRepo.On("Get", mock.Anything, "user1", int64(1)).Return(nil, nil)
			noticeRepo.On("ReadContent", mock.Anything, int64(1)).Return("공지 본문", nil)
			gen.On("GenerateText", mock.Anything, mock.Anything).Return(tc.output, nil)

			_, err := uc.GetOrCompute(context.Background(), "user1", 1)
			assert.Error(t, err)
			assert.Equal(t, http.StatusBadGateway, appErrCode(t, err))

			// Rejected output must never be cached.
			recRepo.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
		})
	}
}

func TestGetOrComputeNotFound(t *testing.T) {
	t.Run("Unknown user maps to 404", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		uc := usecase.NewRecommendationUsecase(userRepo, new(MockNoticeRepo), new(MockRecommendationRepo), new(MockGenerator))

		userRepo.On("GetProfile", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

		_, err := uc.GetOrCompute(context.Background(), "ghost", 1)
		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
	})

	t.Run("Unknown notice maps to 404", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		noticeRepo := new(MockNoticeRepo)
		recRepo := new(MockRecommendationRepo)
		uc := usecase.NewRecommendationUsecase(userRepo, noticeRepo, recRepo, new(MockGenerator))

		userRepo.On("GetProfile", mock.Anything, "user1").Return(&domain.UserProfile{ID: "user1"}, nil)
		recRepo.On("Get", mock.Anything, "user1", int64(99)).Return(nil, nil)
		noticeRepo.On("ReadContent", mock.Anything, int64(99)).Return("", domain.ErrNotFound)

		_, err := uc.GetOrCompute(context.Background(), "user1", 99)
		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
	})
}

func TestListRelevant(t *testing.T) {
	active := []domain.Notice{
		{ID: 1, Title: "AI 경진대회 참가자 모집", Content: "머신러닝 프로젝트"},
		{ID: 2, Title: "교내 합창단 모집", Content: "노래를 사랑하는 학생"},
		{ID: 3, Title: "장학금 안내", Content: "AI 학부연구생 장학 지원"},
	}

	t.Run("Should filter by explicit keywords, case-insensitively", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		noticeRepo := new(MockNoticeRepo)
		uc := usecase.NewRecommendationUsecase(userRepo, noticeRepo, new(MockRecommendationRepo), nil)

		userRepo.On("GetProfile", mock.Anything, "user1").Return(&domain.UserProfile{ID: "user1"}, nil)
		noticeRepo.On("FetchActive", mock.Anything, mock.Anything).Return(active, nil)

		got, err := uc.ListRelevant(context.Background(), "user1", "", []string{"ai"})
		assert.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, int64(1), got[0].ID)
		assert.Equal(t, int64(3), got[1].ID)
	})

	t.Run("Should fall back to profile keywords", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		noticeRepo := new(MockNoticeRepo)
		uc := usecase.NewRecommendationUsecase(userRepo, noticeRepo, new(MockRecommendationRepo), nil)

		userRepo.On("GetProfile", mock.Anything, "user1").Return(
			&domain.UserProfile{ID: "user1", Keywords: []string{"합창"}}, nil)
		noticeRepo.On("FetchActive", mock.Anything, mock.Anything).Return(active, nil)

		got, err := uc.ListRelevant(context.Background(), "user1", "", nil)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].ID)
	})

	t.Run("Should scope to the user's department when none is given", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		noticeRepo := new(MockNoticeRepo)
		uc := usecase.NewRecommendationUsecase(userRepo, noticeRepo, new(MockRecommendationRepo), nil)

		userRepo.On("GetProfile", mock.Anything, "user1").Return(
			&domain.UserProfile{ID: "user1", Department: "컴퓨터학부"}, nil)
		noticeRepo.On("FetchActive", mock.Anything, "컴퓨터학부").Return(active, nil)

		_, err := uc.ListRelevant(context.Background(), "user1", "", nil)
		assert.NoError(t, err)
		noticeRepo.AssertCalled(t, "FetchActive", mock.Anything, "컴퓨터학부")
	})

	t.Run("Should prefer an explicit department over the profile's", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		noticeRepo := new(MockNoticeRepo)
		uc := usecase.NewRecommendationUsecase(userRepo, noticeRepo, new(MockRecommendationRepo), nil)

		userRepo.On("GetProfile", mock.Anything, "user1").Return(
			&domain.UserProfile{ID: "user1", Department: "컴퓨터학부"}, nil)
		noticeRepo.On("FetchActive", mock.Anything, "전체").Return(active, nil)

		_, err := uc.ListRelevant(context.Background(), "user1", "전체", nil)
		assert.NoError(t, err)
		noticeRepo.AssertCalled(t, "FetchActive", mock.Anything, "전체")
	})

	t.Run("Should return everything when no keywords exist anywhere", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		noticeRepo := new(MockNoticeRepo)
		uc := usecase.NewRecommendationUsecase(userRepo, noticeRepo, new(MockRecommendationRepo), nil)

		userRepo.On("GetProfile", mock.Anything, "user1").Return(&domain.UserProfile{ID: "user1"}, nil)
		noticeRepo.On("FetchActive", mock.Anything, mock.Anything).Return(active, nil)

		got, err := uc.ListRelevant(context.Background(), "user1", "", nil)
		assert.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestEnrich(t *testing.T) {
	t.Run("Should store extracted dates and mark the notice", func(t *testing.T) {
		noticeRepo := new(MockNoticeRepo)
		gen := new(MockGenerator)
		uc := usecase.NewEnrichmentUsecase(noticeRepo, gen, 10)

		gen.On("GenerateText", mock.Anything, mock.Anything).Return(
			`{"start_date": "2026-09-01", "end_date": "2026-09-15"}`, nil)
		noticeRepo.On("UpdateEnrichment", mock.Anything, int64(5), mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
			start := args.Get(2).(*string)
			end := args.Get(3).(*string)
			assert.Equal(t, "2026-09-01", *start)
			assert.Equal(t, "2026-09-15", *end)
		})

		notice := &domain.Notice{ID: 5, Content: "신청 기간: 9.1 ~ 9.15"}
		err := uc.Enrich(context.Background(), notice)
		assert.NoError(t, err)
		assert.True(t, notice.EnrichedByAI)
		assert.Equal(t, "2026-09-01", *notice.StartDate)
	})

	t.Run("Should map the literal null marker to absent dates", func(t *testing.T) {
		noticeRepo := new(MockNoticeRepo)
		gen := new(MockGenerator)
		uc := usecase.NewEnrichmentUsecase(noticeRepo, gen, 10)

		gen.On("GenerateText", mock.Anything, mock.Anything).Return(
			`{"start_date": "null", "end_date": "2026-10-02"}`, nil)
		noticeRepo.On("UpdateEnrichment", mock.Anything, int64(5), (*string)(nil), mock.Anything).Return(nil)

		notice := &domain.Notice{ID: 5, Content: "상시 모집, 마감 10월 2일"}
		err := uc.Enrich(context.Background(), notice)
		assert.NoError(t, err)
		assert.Nil(t, notice.StartDate)
		assert.Equal(t, "2026-10-02", *notice.EndDate)
	})

	t.Run("Should tolerate prose and markdown around the JSON", func(t *testing.T) {
		noticeRepo := new(MockNoticeRepo)
		gen := new(MockGenerator)
		uc := usecase.NewEnrichmentUsecase(noticeRepo, gen, 10)

		gen.On("GenerateText", mock.Anything, mock.Anything).Return(
			"추출 결과:\n```json\n{\"start_date\": \"2026-03-02\", \"end_date\": \"null\"}\n```\n확인 바랍니다.", nil)
		noticeRepo.On("UpdateEnrichment", mock.Anything, int64(8), mock.Anything, (*string)(nil)).Return(nil)

		err := uc.Enrich(context.Background(), &domain.Notice{ID: 8, Content: "3월 2일부터"})
		assert.NoError(t, err)
	})

	t.Run("Should leave the notice unenriched on generation failure", func(t *testing.T) {
		noticeRepo := new(MockNoticeRepo)
		gen := new(MockGenerator)
		uc := usecase.NewEnrichmentUsecase(noticeRepo, gen, 10)

		gen.On("GenerateText", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

		notice := &domain.Notice{ID: 5, Content: "본문"}
		err := uc.Enrich(context.Background(), notice)
		assert.Error(t, err)
		assert.False(t, notice.EnrichedByAI)
		noticeRepo.AssertNotCalled(t, "UpdateEnrichment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should fail when the response holds no JSON object", func(t *testing.T) {
		noticeRepo := new(MockNoticeRepo)
		gen := new(MockGenerator)
		uc := usecase.NewEnrichmentUsecase(noticeRepo, gen, 10)

		gen.On("GenerateText", mock.Anything, mock.Anything).Return("날짜를 찾을 수 없습니다.", nil)

		notice := &domain.Notice{ID: 5, Content: "본문"}
		err := uc.Enrich(context.Background(), notice)
		assert.Error(t, err)
		assert.False(t, notice.EnrichedByAI)
	})

	t.Run("Should be a no-op for an already enriched notice", func(t *testing.T) {
		noticeRepo := new(MockNoticeRepo)
		gen := new(MockGenerator)
		uc := usecase.NewEnrichmentUsecase(noticeRepo, gen, 10)

		err := uc.Enrich(context.Background(), &domain.Notice{ID: 5, EnrichedByAI: true})
		assert.NoError(t, err)
		gen.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything)
	})
}

func TestEnrichPending(t *testing.T) {
	t.Run("Should continue past per-notice failures", func(t *testing.T) {
		noticeRepo := new(MockNoticeRepo)
		gen := new(MockGenerator)
		uc := usecase.NewEnrichmentUsecase(noticeRepo, gen, 10)

		pending := []domain.Notice{
			{ID: 1, Content: "첫 번째 공지"},
			{ID: 2, Content: "두 번째 공지"},
		}
		noticeRepo.On("FetchUnenriched", mock.Anything, 10).Return(pending, nil)
		gen.On("GenerateText", mock.Anything, mock.Anything).Return("", errors.New("model overloaded")).Once()
		gen.On("GenerateText", mock.Anything, mock.Anything).Return(
			`{"start_date": "null", "end_date": "null"}`, nil).Once()
		noticeRepo.On("UpdateEnrichment", mock.Anything, int64(2), (*string)(nil), (*string)(nil)).Return(nil)

		err := uc.EnrichPending(context.Background())
		assert.NoError(t, err)
		noticeRepo.AssertCalled(t, "UpdateEnrichment", mock.Anything, int64(2), (*string)(nil), (*string)(nil))
	})

	t.Run("Should respect the batch size", func(t *testing.T) {
		noticeRepo := new(MockNoticeRepo)
		uc := usecase.NewEnrichmentUsecase(noticeRepo, new(MockGenerator), 3)

		noticeRepo.On("FetchUnenriched", mock.Anything, 3).Return([]domain.Notice{}, nil)

		err := uc.EnrichPending(context.Background())
		assert.NoError(t, err)
		noticeRepo.AssertCalled(t, "FetchUnenriched", mock.Anything, 3)
	})
}

func TestListNotices(t *testing.T) {
	t.Run("Should carry stored metadata through to the views", func(t *testing.T) {
		noticeRepo := new(MockNoticeRepo)
		uc := usecase.NewNoticeUsecase(noticeRepo, new(MockUserRepo), validator.New())

		crawledAt := time.Date(2026, 8, 27, 9, 30, 0, 0, time.UTC)
		dept := "컴퓨터학부"
		noticeRepo.On("Fetch", mock.Anything).Return([]domain.Notice{
			{ID: 1, Title: "공지", TargetDept: &dept, CreatedAt: &crawledAt},
		}, nil)

		views, err := uc.ListNotices(context.Background(), "")
		assert.NoError(t, err)
		assert.Len(t, views, 1)
		assert.Equal(t, &crawledAt, views[0].CreatedAt)
		assert.Equal(t, &dept, views[0].TargetDept)
		assert.Nil(t, views[0].Score)
	})

	t.Run("Should join recommendation data when a user is given", func(t *testing.T) {
		noticeRepo := new(MockNoticeRepo)
		uc := usecase.NewNoticeUsecase(noticeRepo, new(MockUserRepo), validator.New())

		score := 85
		noticeRepo.On("FetchWithRecommendations", mock.Anything, "user1").Return([]domain.NoticeView{
			{Notice: domain.Notice{ID: 1, Title: "공지"}, Score: &score},
		}, nil)

		views, err := uc.ListNotices(context.Background(), "user1")
		assert.NoError(t, err)
		assert.Len(t, views, 1)
		assert.Equal(t, 85, *views[0].Score)
	})
}

func TestIngestBulk(t *testing.T) {
	validate := validator.New()

	t.Run("Should reject an empty batch", func(t *testing.T) {
		uc := usecase.NewNoticeUsecase(new(MockNoticeRepo), new(MockUserRepo), validate)

		_, err := uc.IngestBulk(context.Background(), nil)
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
	})

	t.Run("Should reject a batch holding an untitled notice", func(t *testing.T) {
		uc := usecase.NewNoticeUsecase(new(MockNoticeRepo), new(MockUserRepo), validate)

		_, err := uc.IngestBulk(context.Background(), []domain.NoticeInput{
			{Title: "정상 공지"},
			{Title: ""},
		})
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
	})

	t.Run("Should reject a malformed post date", func(t *testing.T) {
		uc := usecase.NewNoticeUsecase(new(MockNoticeRepo), new(MockUserRepo), validate)

		_, err := uc.IngestBulk(context.Background(), []domain.NoticeInput{
			{Title: "정상 공지", PostDate: "2026.08.21"},
		})
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
	})

	t.Run("Should report the inserted count, not the batch size", func(t *testing.T) {
		noticeRepo := new(MockNoticeRepo)
		uc := usecase.NewNoticeUsecase(noticeRepo, new(MockUserRepo), validate)

		inputs := []domain.NoticeInput{{Title: "a"}, {Title: "b"}, {Title: "a"}}
		noticeRepo.On("BulkInsert", mock.Anything, inputs).Return(2, nil)

		count, err := uc.IngestBulk(context.Background(), inputs)
		assert.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestUpdateKeywords(t *testing.T) {
	t.Run("Should map an unknown user to 404", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		uc := usecase.NewNoticeUsecase(new(MockNoticeRepo), userRepo, validator.New())

		userRepo.On("UpdateKeywords", mock.Anything, "ghost", []string{"ai"}).Return(domain.ErrNotFound)

		err := uc.UpdateKeywords(context.Background(), "ghost", []string{"ai"})
		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
	})

	t.Run("Should require a user id", func(t *testing.T) {
		uc := usecase.NewNoticeUsecase(new(MockNoticeRepo), new(MockUserRepo), validator.New())

		err := uc.UpdateKeywords(context.Background(), "", []string{"ai"})
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
	})
}
