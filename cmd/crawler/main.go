// One-shot crawl binary: crawls every seed source once, sweeps unenriched
// notices, and exits. Meant for cron-less environments and manual runs;
// the API server can also schedule the same cycle via CRAWL_CRON_SPEC.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"go-notice-backend/config"
	"go-notice-backend/internal/crawler"
	"go-notice-backend/internal/repository/postgres"
	"go-notice-backend/internal/usecase"
	"go-notice-backend/pkg/database"
	"go-notice-backend/pkg/genai"
	"go-notice-backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init()
	logger.Log.Info("Starting one-shot crawl", "seeds", len(cfg.CrawlSeeds))

	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	noticeRepo := postgres.NewNoticeRepository(dbPool)

	var generator genai.TextGenerator
	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Log.Error("Failed to create generation client", "error", err)
			os.Exit(1)
		}
		generator = client
	} else {
		logger.Log.Warn("GEMINI_API_KEY not set; notices will be stored unenriched")
	}

	enricher := usecase.NewEnrichmentUsecase(noticeRepo, generator, cfg.EnrichBatchSize)

	fetcher := crawler.NewHTTPFetcher(time.Duration(cfg.CrawlTimeoutSeconds) * time.Second)
	limiter := crawler.FixedDelay{Delay: time.Duration(cfg.CrawlDelayMillis) * time.Millisecond}
	orchestrator := crawler.NewOrchestrator(crawler.DefaultRegistry(), fetcher, noticeRepo, enricher, limiter)

	ctx := context.Background()
	summary := orchestrator.Run(ctx, cfg.CrawlSeeds)
	logger.Log.Info("crawl finished",
		"inserted", summary.Inserted, "duplicates", summary.Duplicates, "failed", summary.Failed)

	if generator != nil {
		// Pick up notices left unenriched by this or earlier runs.
		if err := enricher.EnrichPending(ctx); err != nil {
			logger.Log.Error("enrichment sweep failed", "error", err)
		}
	}
}
