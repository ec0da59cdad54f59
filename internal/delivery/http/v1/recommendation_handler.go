package v1

import (
	"net/http"
	"strconv"
	"strings"

	"go-notice-backend/internal/delivery/http/response"
	"go-notice-backend/internal/domain"
	"go-notice-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type RecommendationHandler struct {
	recUC domain.RecommendationUsecase
}

func NewRecommendationHandler(protected *gin.RouterGroup, recUC domain.RecommendationUsecase) {
	handler := &RecommendationHandler{recUC: recUC}

	recs := protected.Group("/recommendations")
	{
		recs.GET("", handler.ListRelevant)
		recs.GET("/notices/:noticeId", handler.GetOrCompute)
		recs.DELETE("/notices/:noticeId", handler.Invalidate)
	}
}

func noticeIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("noticeId"), 10, 64)
	if err != nil || id <= 0 {
		c.Error(apperror.BadRequest("Invalid notice id"))
		return 0, false
	}
	return id, true
}

// GetOrCompute godoc
// @Summary      Get a personalized score for one notice
// @Description  Serves the cached score while the user's profile is unchanged; scores afresh otherwise
// @Tags         recommendations
// @Produce      json
// @Param        noticeId  path      int  true  "Notice ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /recommendations/notices/{noticeId} [get]
// @Security     BearerAuth
func (h *RecommendationHandler) GetOrCompute(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	noticeID, ok := noticeIDParam(c)
	if !ok {
		return
	}

	result, err := h.recUC.GetOrCompute(c.Request.Context(), userID, noticeID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Recommendation retrieved", result)
}

// Invalidate godoc
// @Summary      Drop a cached recommendation
// @Tags         recommendations
// @Produce      json
// @Param        noticeId  path      int  true  "Notice ID"
// @Success      200  {object}  response.Response
// @Router       /recommendations/notices/{noticeId} [delete]
// @Security     BearerAuth
func (h *RecommendationHandler) Invalidate(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	noticeID, ok := noticeIDParam(c)
	if !ok {
		return
	}

	if err := h.recUC.Invalidate(c.Request.Context(), userID, noticeID); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Recommendation invalidated", nil)
}

// ListRelevant godoc
// @Summary      List still-active notices relevant to the caller
// @Description  Scopes active notices to a department (the caller's own by default) and filters by the given keywords, or the user's stored keywords when none are given
// @Tags         recommendations
// @Produce      json
// @Param        dept      query     string  false  "Department scope; defaults to the caller's department"
// @Param        keywords  query     string  false  "Comma-separated keyword filter"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /recommendations [get]
// @Security     BearerAuth
func (h *RecommendationHandler) ListRelevant(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	dept := strings.TrimSpace(c.Query("dept"))

	var keywords []string
	if raw := c.Query("keywords"); raw != "" {
		for _, kw := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(kw); trimmed != "" {
				keywords = append(keywords, trimmed)
			}
		}
	}

	notices, err := h.recUC.ListRelevant(c.Request.Context(), userID, dept, keywords)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Relevant notices retrieved", notices)
}
