package crawler

import (
	"context"
	"strings"

	"go-notice-backend/internal/domain"
	"go-notice-backend/pkg/logger"
)

// Orchestrator drives the adapters over the seed listing pages: dedup
// against the store, detail fetch, date normalization, insert, then a
// synchronous enrichment attempt per new notice. Sources and items fail
// independently; one bad row never aborts its siblings.
type Orchestrator struct {
	registry *Registry
	fetcher  PageFetcher
	notices  domain.NoticeRepository
	enricher domain.Enricher // may be nil when no generation backend is configured
	limiter  Limiter
}

func NewOrchestrator(
	registry *Registry,
	fetcher PageFetcher,
	notices domain.NoticeRepository,
	enricher domain.Enricher,
	limiter Limiter,
) *Orchestrator {
	if limiter == nil {
		limiter = NoDelay{}
	}
	return &Orchestrator{
		registry: registry,
		fetcher:  fetcher,
		notices:  notices,
		enricher: enricher,
		limiter:  limiter,
	}
}

// Summary counts one run's outcomes across all seeds.
type Summary struct {
	Inserted   int
	Duplicates int
	Failed     int
}

// Run processes every seed in order and runs to completion; it never
// returns early on per-source failures. Already-inserted notices stay
// committed regardless of what fails later.
func (o *Orchestrator) Run(ctx context.Context, seeds []string) Summary {
	var total Summary

	for _, seed := range seeds {
		adapter := o.registry.Select(seed)
		if adapter == nil {
			logger.Log.Warn("no adapter for seed, skipping", "seed", seed)
			continue
		}

		doc, err := o.fetcher.FetchDocument(ctx, seed)
		if err != nil {
			// Listing load failure costs the whole source for this run,
			// but never the run itself.
			logger.Log.Error("listing page failed to load", "source", adapter.Source(), "seed", seed, "error", err)
			continue
		}

		items := adapter.ExtractList(doc, seed)
		logger.Log.Info("listing extracted", "source", adapter.Source(), "candidates", len(items))

		s := o.processItems(ctx, adapter, items)
		logger.Log.Info("source done",
			"source", adapter.Source(),
			"inserted", s.Inserted, "duplicates", s.Duplicates, "failed", s.Failed)

		total.Inserted += s.Inserted
		total.Duplicates += s.Duplicates
		total.Failed += s.Failed
	}

	return total
}

func (o *Orchestrator) processItems(ctx context.Context, adapter SourceAdapter, items []domain.CandidateItem) Summary {
	var s Summary

	for _, item := range items {
		// Dedup fast path: a known title skips the detail fetch entirely,
		// so it also skips the pacing delay below.
		existing, err := o.notices.FindByTitle(ctx, item.Title)
		if err != nil {
			logger.Log.Error("dedup check failed", "title", item.Title, "error", err)
			s.Failed++
			continue
		}
		if existing != nil {
			s.Duplicates++
			continue
		}

		o.crawlItem(ctx, adapter, item, &s)

		// Pace between detail fetches whatever the item's outcome was.
		if err := o.limiter.Wait(ctx); err != nil {
			logger.Log.Warn("crawl cancelled mid-source", "source", adapter.Source(), "error", err)
			return s
		}
	}

	return s
}

// crawlItem fetches one candidate's detail page, builds the notice, and
// inserts it with a synchronous enrichment attempt.
func (o *Orchestrator) crawlItem(ctx context.Context, adapter SourceAdapter, item domain.CandidateItem, s *Summary) {
	doc, err := o.fetcher.FetchDocument(ctx, item.Link)
	if err != nil {
		logger.Log.Error("detail fetch failed", "title", item.Title, "link", item.Link, "error", err)
		s.Failed++
		return
	}

	notice := &domain.Notice{
		Source:   item.Source,
		Title:    item.Title,
		Content:  adapter.ExtractDetail(doc),
		Link:     item.Link,
		PostDate: NormalizeDate(item.RawDateText),
	}

	inserted, err := o.notices.InsertIgnoringConflict(ctx, notice)
	if err != nil {
		logger.Log.Error("insert failed", "title", item.Title, "error", err)
		s.Failed++
		return
	}
	if !inserted {
		// A concurrent crawl won the title; nothing to do.
		s.Duplicates++
		return
	}
	s.Inserted++

	if o.enricher != nil {
		if err := o.enricher.Enrich(ctx, notice); err != nil {
			// The notice stays committed and unenriched; a later
			// enrichment sweep picks it up again.
			logger.Log.Warn("enrichment failed", "title", item.Title, "error", err)
		}
	}
}

// NormalizeDate maps locale separators to the canonical one: "2024.03.05"
// becomes "2024-03-05". No timezone or calendar conversion happens here.
func NormalizeDate(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), ".", "-")
}
