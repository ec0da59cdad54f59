package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-notice-backend/internal/domain"
	"go-notice-backend/pkg/genai"
	"go-notice-backend/pkg/logger"
)

// excerptLimit bounds how much notice body goes into the prompt, in runes,
// to keep generation cost flat regardless of page size.
const excerptLimit = 2000

type enrichmentUsecase struct {
	noticeRepo domain.NoticeRepository
	generator  genai.TextGenerator
	batchSize  int
}

func NewEnrichmentUsecase(noticeRepo domain.NoticeRepository, generator genai.TextGenerator, batchSize int) domain.Enricher {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &enrichmentUsecase{
		noticeRepo: noticeRepo,
		generator:  generator,
		batchSize:  batchSize,
	}
}

// dateWindow mirrors the JSON shape the model is instructed to emit.
type dateWindow struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Enrich asks the model for the notice's start/end dates and commits only a
// structurally valid result. On any failure the notice stays unenriched and
// remains eligible for a later sweep; the insert it followed is never
// rolled back by the caller.
func (u *enrichmentUsecase) Enrich(ctx context.Context, notice *domain.Notice) error {
	if notice.EnrichedByAI {
		// Advisory guard; repeating the operation is safe.
		return nil
	}
	if u.generator == nil {
		return errors.New("no generation backend configured")
	}

	raw, err := u.generator.GenerateText(ctx, buildDatePrompt(notice.Content))
	if err != nil {
		return fmt.Errorf("date extraction request: %w", err)
	}

	jsonStr, err := extractJSON(raw)
	if err != nil {
		return fmt.Errorf("date extraction response: %w", err)
	}

	var window dateWindow
	if err := json.Unmarshal([]byte(jsonStr), &window); err != nil {
		return fmt.Errorf("parse date extraction response: %w", err)
	}

	startDate := nullableDate(window.StartDate)
	endDate := nullableDate(window.EndDate)

	if err := u.noticeRepo.UpdateEnrichment(ctx, notice.ID, startDate, endDate); err != nil {
		return fmt.Errorf("store extracted dates: %w", err)
	}

	notice.StartDate = startDate
	notice.EndDate = endDate
	notice.EnrichedByAI = true
	return nil
}

// EnrichPending sweeps a bounded batch of unenriched notices. Per-notice
// failures are logged and skipped; a notice that fails here is picked up
// again by the next sweep since its flag stays false.
func (u *enrichmentUsecase) EnrichPending(ctx context.Context) error {
	notices, err := u.noticeRepo.FetchUnenriched(ctx, u.batchSize)
	if err != nil {
		return fmt.Errorf("fetch unenriched notices: %w", err)
	}
	if len(notices) == 0 {
		logger.Log.Info("no notices waiting for enrichment")
		return nil
	}

	logger.Log.Info("enrichment sweep started", "count", len(notices))
	for i := range notices {
		if err := u.Enrich(ctx, &notices[i]); err != nil {
			logger.Log.Warn("enrichment failed", "notice_id", notices[i].ID, "error", err)
		}
	}
	return nil
}

// nullableDate maps the model's literal null marker (and empty output) to
// an absent value. Other non-date-shaped values are stored as given; the
// date column rejects them and that surfaces as a normal enrichment failure.
func nullableDate(s string) *string {
	if s == "" || s == "null" {
		return nil
	}
	return &s
}

func buildDatePrompt(content string) string {
	excerpt := []rune(content)
	if len(excerpt) > excerptLimit {
		excerpt = excerpt[:excerptLimit]
	}

	return fmt.Sprintf(`다음은 대학 공지사항 본문입니다. 이 활동의 '신청 시작일'과 '최종 마감일'을 찾아주세요.
연도가 명시되지 않았다면 게시물 등록일(현재연도)로 가정하세요.
반드시 아래 JSON 형식으로만 응답하세요:
{"start_date": "YYYY-MM-DD", "end_date": "YYYY-MM-DD"}
날짜를 도저히 알 수 없다면 "null"로 표기하세요.

[공지사항 본문]:
%s`, string(excerpt))
}
