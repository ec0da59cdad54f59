package v1

import (
	"context"
	"net/http"

	"go-notice-backend/internal/crawler"
	"go-notice-backend/internal/delivery/http/response"
	"go-notice-backend/internal/domain"
	"go-notice-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// CrawlHandler exposes the on-demand crawl and enrichment sweeps. Both run
// detached from the request: a crawl can take minutes and has no mid-run
// cancellation, so tying it to the request context would kill it on
// client disconnect.
type CrawlHandler struct {
	orchestrator *crawler.Orchestrator
	enricher     domain.Enricher
	seeds        []string
}

func NewCrawlHandler(protected *gin.RouterGroup, orchestrator *crawler.Orchestrator, enricher domain.Enricher, seeds []string) {
	handler := &CrawlHandler{
		orchestrator: orchestrator,
		enricher:     enricher,
		seeds:        seeds,
	}

	crawlerGroup := protected.Group("/crawler")
	{
		crawlerGroup.POST("/run", handler.Run)
		crawlerGroup.POST("/enrich", handler.Enrich)
	}
}

// Run godoc
// @Summary      Trigger a crawl of all seed sources
// @Tags         crawler
// @Produce      json
// @Success      202  {object}  response.Response
// @Router       /crawler/run [post]
// @Security     BearerAuth
func (h *CrawlHandler) Run(c *gin.Context) {
	go func() {
		summary := h.orchestrator.Run(context.Background(), h.seeds)
		logger.Log.Info("on-demand crawl finished",
			"inserted", summary.Inserted, "duplicates", summary.Duplicates, "failed", summary.Failed)
	}()

	response.Success(c, http.StatusAccepted, "Crawl started", gin.H{"seeds": len(h.seeds)})
}

// Enrich godoc
// @Summary      Trigger an enrichment sweep over unprocessed notices
// @Tags         crawler
// @Produce      json
// @Success      202  {object}  response.Response
// @Router       /crawler/enrich [post]
// @Security     BearerAuth
func (h *CrawlHandler) Enrich(c *gin.Context) {
	go func() {
		if err := h.enricher.EnrichPending(context.Background()); err != nil {
			logger.Log.Error("on-demand enrichment sweep failed", "error", err)
		}
	}()

	response.Success(c, http.StatusAccepted, "Enrichment sweep started", nil)
}
