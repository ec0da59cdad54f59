// Package scheduler wires up the cron job that periodically crawls the seed
// sources and sweeps unenriched notices.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"go-notice-backend/internal/crawler"
	"go-notice-backend/internal/domain"
	"go-notice-backend/pkg/logger"
)

// Scheduler wraps robfig/cron and manages the crawl loop.
type Scheduler struct {
	cron         *cron.Cron
	orchestrator *crawler.Orchestrator
	enricher     domain.Enricher
	seeds        []string
	spec         string // cron spec, e.g. "@every 6h"
}

func New(orchestrator *crawler.Orchestrator, enricher domain.Enricher, seeds []string, spec string) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		orchestrator: orchestrator,
		enricher:     enricher,
		seeds:        seeds,
		spec:         spec,
	}
}

// Start registers the job and starts the scheduler. Also runs one cycle
// immediately so the store is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	logger.Log.Info("crawl scheduler started", "spec", s.spec, "seeds", len(s.seeds))

	// Run immediately on startup (non-blocking)
	go s.runCycle(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	logger.Log.Info("crawl scheduler stopped")
}

// runCycle crawls every seed, then sweeps notices the crawl left
// unenriched (earlier failures included).
func (s *Scheduler) runCycle(ctx context.Context) {
	logger.Log.Info("crawl cycle started")

	summary := s.orchestrator.Run(ctx, s.seeds)
	logger.Log.Info("crawl cycle complete",
		"inserted", summary.Inserted, "duplicates", summary.Duplicates, "failed", summary.Failed)

	if s.enricher != nil {
		if err := s.enricher.EnrichPending(ctx); err != nil {
			logger.Log.Error("enrichment sweep failed", "error", err)
		}
	}
}
