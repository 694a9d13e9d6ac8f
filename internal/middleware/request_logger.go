package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"messenger/internal/metrics"
	"messenger/pkg/logger"
)

func RequestLogger(log logger.Logger, m *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		m.RecordRequest(c.Request.Method, c.FullPath(), statusCode, latency)

		if raw != "" {
			path = path + "?" + raw
		}

		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", statusCode,
			"latency", latency,
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(RequestIDKey),
		}
		switch {
		case statusCode >= 500:
			log.Error("HTTP request", args...)
		case statusCode >= 400:
			log.Warn("HTTP request", args...)
		default:
			log.Info("HTTP request", args...)
		}
	}
}
