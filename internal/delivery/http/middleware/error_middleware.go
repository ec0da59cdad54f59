package middleware

import (
	"errors"
	"net/http"

	"go-notice-backend/internal/delivery/http/response"
	"go-notice-backend/pkg/apperror"
	"go-notice-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors collected on the context into the standard
// envelope. AppErrors keep their code and message (a 502 tells clients the
// model had an issue, distinct from a broken server); anything else becomes
// an opaque 500 so internals never leak to clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				if appErr.Code >= http.StatusInternalServerError {
					logger.Log.Error("request failed", "path", c.FullPath(), "error", err)
				}
				response.Error(c, appErr.Code, appErr.Message, nil)
			} else {
				logger.Log.Error("unhandled error", "path", c.FullPath(), "error", err)
				response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
			}
		}
	}
}
