package v1

import (
	"net/http"

	"go-notice-backend/internal/delivery/http/response"
	"go-notice-backend/internal/domain"
	"go-notice-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type NoticeHandler struct {
	noticeUC domain.NoticeUsecase
}

func NewNoticeHandler(public *gin.RouterGroup, protected *gin.RouterGroup, noticeUC domain.NoticeUsecase) {
	handler := &NoticeHandler{noticeUC: noticeUC}

	public.GET("/notices", handler.List)

	protectedNotices := protected.Group("/notices")
	{
		protectedNotices.POST("/bulk", handler.IngestBulk)
		protectedNotices.POST("/update-keywords", handler.UpdateKeywords)
	}
}

type BulkIngestRequest struct {
	Notices []domain.NoticeInput `json:"notices" binding:"required,min=1,dive"`
}

type UpdateKeywordsRequest struct {
	Keywords []string `json:"keywords" binding:"required"`
}

// IngestBulk godoc
// @Summary      Bulk-ingest notices
// @Description  Stores a batch of notices in one transaction; duplicates by title are skipped
// @Tags         notices
// @Accept       json
// @Produce      json
// @Param        payload  body      BulkIngestRequest  true  "Notices JSON"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /notices/bulk [post]
// @Security     BearerAuth
func (h *NoticeHandler) IngestBulk(c *gin.Context) {
	var req BulkIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid bulk ingest payload: " + err.Error()))
		return
	}

	count, err := h.noticeUC.IngestBulk(c.Request.Context(), req.Notices)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Notices ingested", gin.H{"inserted": count})
}

// List godoc
// @Summary      List notices
// @Description  Lists notices newest first; with user_id, joins that user's cached recommendation data
// @Tags         notices
// @Produce      json
// @Param        user_id  query     string  false  "User to join recommendation data for"
// @Success      200  {object}  response.Response
// @Router       /notices [get]
func (h *NoticeHandler) List(c *gin.Context) {
	userID := c.Query("user_id")

	views, err := h.noticeUC.ListNotices(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Notices retrieved", views)
}

// UpdateKeywords godoc
// @Summary      Update interest keywords
// @Description  Replaces the calling user's interest keywords
// @Tags         notices
// @Accept       json
// @Produce      json
// @Param        payload  body      UpdateKeywordsRequest  true  "Keywords JSON"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /notices/update-keywords [post]
// @Security     BearerAuth
func (h *NoticeHandler) UpdateKeywords(c *gin.Context) {
	// Keywords always belong to the authenticated user; the body carries
	// no user id to prevent cross-user writes.
	userID := c.GetString(string(domain.KeyUserID))

	var req UpdateKeywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid keywords payload: " + err.Error()))
		return
	}

	if err := h.noticeUC.UpdateKeywords(c.Request.Context(), userID, req.Keywords); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Keywords updated", nil)
}
