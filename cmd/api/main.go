package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-notice-backend/config"
	_ "go-notice-backend/docs" // Important for Swagger
	"go-notice-backend/internal/crawler"
	v1 "go-notice-backend/internal/delivery/http/v1"
	"go-notice-backend/internal/repository/postgres"
	"go-notice-backend/internal/scheduler"
	"go-notice-backend/internal/usecase"
	"go-notice-backend/pkg/database"
	"go-notice-backend/pkg/genai"
	"go-notice-backend/pkg/logger"
	"go-notice-backend/pkg/redis"

	"github.com/go-playground/validator/v10"
)

// @title           Notice Aggregation Backend API
// @version         1.0
// @description     Crawls university notice boards, enriches notices with AI-extracted validity windows, and serves personalized recommendation scores.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting notice backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (rate limiting; the API degrades to in-memory limits without it)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable", "error", err)
	}
	defer redis.Close()

	// 5. Setup Repositories
	noticeRepo := postgres.NewNoticeRepository(dbPool)
	userRepo := postgres.NewUserRepository(dbPool)
	recRepo := postgres.NewRecommendationRepository(dbPool)

	// 6. Setup Generation Client (enrichment and scoring stay disabled without a key)
	var generator genai.TextGenerator
	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Log.Error("Failed to create generation client", "error", err)
			os.Exit(1)
		}
		generator = client
	}

	// 7. Setup UseCases
	validate := validator.New()
	noticeUC := usecase.NewNoticeUsecase(noticeRepo, userRepo, validate)
	recUC := usecase.NewRecommendationUsecase(userRepo, noticeRepo, recRepo, generator)

	enricher := usecase.NewEnrichmentUsecase(noticeRepo, generator, cfg.EnrichBatchSize)

	// 8. Setup Crawler
	fetcher := crawler.NewHTTPFetcher(time.Duration(cfg.CrawlTimeoutSeconds) * time.Second)
	limiter := crawler.FixedDelay{Delay: time.Duration(cfg.CrawlDelayMillis) * time.Millisecond}
	orchestrator := crawler.NewOrchestrator(crawler.DefaultRegistry(), fetcher, noticeRepo, enricher, limiter)

	// 9. Optional crawl scheduler
	if cfg.CrawlCronSpec != "" {
		sched := scheduler.New(orchestrator, enricher, cfg.CrawlSeeds, cfg.CrawlCronSpec)
		if err := sched.Start(context.Background()); err != nil {
			logger.Log.Error("Failed to start scheduler", "error", err)
			os.Exit(1)
		}
		defer sched.Stop()
	}

	// 10. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		NoticeUC:         noticeUC,
		RecommendationUC: recUC,
		Enricher:         enricher,
		Orchestrator:     orchestrator,
		Config:           cfg,
	})

	// 11. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
