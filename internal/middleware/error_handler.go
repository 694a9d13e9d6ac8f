package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"messenger/pkg/errors"
	"messenger/pkg/logger"
)

// ErrorHandler отдает последнюю ошибку из c.Errors в формате APIError
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last()
		apiErr := errors.FromError(err.Err)
		if apiErr.Code == http.StatusInternalServerError {
			log.Error("Request failed", "error", err.Err, "path", c.FullPath(), "request_id", c.GetString(RequestIDKey))
		}

		c.JSON(apiErr.Code, apiErr)
	}
}
