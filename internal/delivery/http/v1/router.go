package v1

import (
	"net/http"
	"time"

	"go-notice-backend/config"
	"go-notice-backend/internal/crawler"
	"go-notice-backend/internal/delivery/http/middleware"
	"go-notice-backend/internal/delivery/http/response"
	"go-notice-backend/internal/domain"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	NoticeUC         domain.NoticeUsecase
	RecommendationUC domain.RecommendationUsecase
	Enricher         domain.Enricher
	Orchestrator     *crawler.Orchestrator
	Config           *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig(
		deps.Config.RateLimitGlobalThreshold,
		time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
	)))

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Config))
	{
		NewNoticeHandler(v1, protected, deps.NoticeUC)
		NewRecommendationHandler(protected, deps.RecommendationUC)
		if deps.Orchestrator != nil && deps.Enricher != nil {
			NewCrawlHandler(protected, deps.Orchestrator, deps.Enricher, deps.Config.CrawlSeeds)
		}
	}

	return r
}
