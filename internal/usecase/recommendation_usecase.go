package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go-notice-backend/internal/domain"
	"go-notice-backend/pkg/apperror"
	"go-notice-backend/pkg/genai"
	"go-notice-backend/pkg/logger"
)

type recommendationUsecase struct {
	userRepo   domain.UserRepository
	noticeRepo domain.NoticeRepository
	recRepo    domain.RecommendationRepository
	generator  genai.TextGenerator
}

func NewRecommendationUsecase(
	userRepo domain.UserRepository,
	noticeRepo domain.NoticeRepository,
	recRepo domain.RecommendationRepository,
	generator genai.TextGenerator,
) domain.RecommendationUsecase {
	return &recommendationUsecase{
		userRepo:   userRepo,
		noticeRepo: noticeRepo,
		recRepo:    recRepo,
		generator:  generator,
	}
}

// ProfileFingerprint digests the mutable profile fields that feed scoring.
// Equal field values always produce equal fingerprints; changing any one
// field changes it. The unit separator keeps adjacent fields from bleeding
// into each other.
func ProfileFingerprint(p *domain.UserProfile) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%d\x1f%s\x1f%s", p.Grade, p.Department, p.ExperienceSummary))
	return hex.EncodeToString(sum[:])
}

// GetOrCompute returns the cached score for (user, notice) when the stored
// fingerprint still matches the user's current profile, and scores afresh
// otherwise. A given profile state is scored at most once per notice.
//
// Notice-content edits do not invalidate cached scores; only profile edits
// do. Concurrent cold-cache calls may both score; the write is an upsert
// and the last one wins.
func (u *recommendationUsecase) GetOrCompute(ctx context.Context, userID string, noticeID int64) (*domain.RecommendationResult, error) {
	profile, err := u.userRepo.GetProfile(ctx, userID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}

	fingerprint := ProfileFingerprint(profile)

	cached, err := u.recRepo.Get(ctx, userID, noticeID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if cached != nil {
		if cached.ProfileFingerprint == fingerprint {
			return &domain.RecommendationResult{
				Score:  cached.Score,
				Reason: cached.Reason,
				Origin: domain.OriginCache,
			}, nil
		}
		// The profile changed since this score was computed; the record is
		// no longer valid evidence.
		if err := u.recRepo.Delete(ctx, userID, noticeID); err != nil {
			return nil, apperror.Internal(err)
		}
		logger.Log.Info("stale recommendation invalidated", "user_id", userID, "notice_id", noticeID)
	}

	content, err := u.noticeRepo.ReadContent(ctx, noticeID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, apperror.NotFound("Notice not found")
		}
		return nil, apperror.Internal(err)
	}

	score, reason, err := u.score(ctx, profile, content)
	if err != nil {
		// Nothing is written on a scoring failure; the caller can retry
		// and a later call starts from the same cold slot.
		return nil, err
	}

	record := &domain.RecommendationRecord{
		UserID:             userID,
		NoticeID:           noticeID,
		Score:              score,
		Reason:             reason,
		ProfileFingerprint: fingerprint,
		ComputedAt:         time.Now(),
	}
	if err := u.recRepo.Write(ctx, record); err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.RecommendationResult{
		Score:  score,
		Reason: reason,
		Origin: domain.OriginFresh,
	}, nil
}

// ListRelevant returns still-active notices scoped to a department and
// matching the user's interest keywords in title or content. An empty dept
// falls back to the user's own department; with no keywords at all, every
// scoped notice qualifies.
func (u *recommendationUsecase) ListRelevant(ctx context.Context, userID, dept string, keywords []string) ([]domain.Notice, error) {
	profile, err := u.userRepo.GetProfile(ctx, userID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}
	if dept == "" {
		dept = profile.Department
	}
	if len(keywords) == 0 {
		keywords = profile.Keywords
	}

	notices, err := u.noticeRepo.FetchActive(ctx, dept)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(keywords) == 0 {
		return notices, nil
	}

	filtered := make([]domain.Notice, 0, len(notices))
	for _, n := range notices {
		if matchesAnyKeyword(n, keywords) {
			filtered = append(filtered, n)
		}
	}
	return filtered, nil
}

func matchesAnyKeyword(n domain.Notice, keywords []string) bool {
	title := strings.ToLower(n.Title)
	content := strings.ToLower(n.Content)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(title, kw) || strings.Contains(content, kw) {
			return true
		}
	}
	return false
}

func (u *recommendationUsecase) Invalidate(ctx context.Context, userID string, noticeID int64) error {
	if err := u.recRepo.Delete(ctx, userID, noticeID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// scoreResponse mirrors the JSON shape the scorer must emit. Score is kept
// as json.Number so a fractional value fails integer validation instead of
// being silently truncated.
type scoreResponse struct {
	Score  json.Number `json:"score"`
	Reason string      `json:"reason"`
}

// score calls the model and validates the result. Free-form model output is
// never trusted implicitly: unparsable responses, non-integer or
// out-of-range scores, and empty reasons are all hard UpstreamFailures.
func (u *recommendationUsecase) score(ctx context.Context, profile *domain.UserProfile, content string) (int, string, error) {
	if u.generator == nil {
		return 0, "", apperror.UpstreamFailure("Scoring backend not configured", nil)
	}

	raw, err := u.generator.GenerateText(ctx, buildScorePrompt(profile, content))
	if err != nil {
		return 0, "", apperror.UpstreamFailure("Scoring request failed", err)
	}

	jsonStr, err := extractJSON(raw)
	if err != nil {
		return 0, "", apperror.UpstreamFailure("Scorer returned no JSON object", err)
	}

	var resp scoreResponse
	if err := json.Unmarshal([]byte(jsonStr), &resp); err != nil {
		return 0, "", apperror.UpstreamFailure("Scorer returned malformed JSON", err)
	}

	score, err := resp.Score.Int64()
	if err != nil {
		return 0, "", apperror.UpstreamFailure("Scorer returned a non-integer score", err)
	}
	if score < 0 || score > 100 {
		return 0, "", apperror.UpstreamFailure(fmt.Sprintf("Scorer returned score %d outside [0,100]", score), nil)
	}

	reason := strings.TrimSpace(resp.Reason)
	if reason == "" {
		return 0, "", apperror.UpstreamFailure("Scorer returned an empty reason", nil)
	}

	return int(score), reason, nil
}

func buildScorePrompt(profile *domain.UserProfile, content string) string {
	return fmt.Sprintf(`당신은 대학생을 위한 전문 커리어 분석가입니다.
입력된 [학생의 프로필]과 [공지사항 데이터]를 대조하여, 이 활동이 해당 학생에게 얼마나 실질적인 '스펙' 혹은 '성장 기회'가 될지 분석하세요.

[학생의 프로필]: %d학년, %s, 경험: %s
[공지사항 데이터]: %s

[분석 및 채점 규칙]:
1. 직무 적합성 (40점): 학생이 지향하는 진로와 공지사항의 주제가 얼마나 일치하는가?
2. 성장 가능성 (30점): 학생의 현재 수준(학년/보유 스택/경험)에서 도전할 만한 가치가 있는가? 너무 쉽거나 너무 어려운 것은 감점 대상임.
3. 희소성 및 보상 (30점): 장학금, 채용 연계, 학부연구생 등 커리어에 직접적인 '한 줄'이 될 수 있는 유력한 기회인가?

[응답 제약]:
- 반드시 한국어로 답변하세요.
- 감성적인 추천보다는 '데이터'와 '학생의 이력'에 기반한 차가운 분석을 하세요.
- 응답은 반드시 아래 JSON 형식으로만 하며, 마크다운 기호는 포함하지 마세요.

{
    "score": (0~100 사이의 정수),
    "reason": (이 점수를 준 근거를 학생의 프로필 키워드와 연결하여 1~2문장으로 설명)
}`, profile.Grade, profile.Department, profile.ExperienceSummary, content)
}
