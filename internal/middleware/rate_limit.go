package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"messenger/internal/service"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/logger"
)

type RateLimitMiddleware struct {
	rateLimitService service.RateLimitService
	log              logger.Logger
}

func NewRateLimitMiddleware(rateLimitService service.RateLimitService, log logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		log:              log,
	}
}

// Limit ограничивает запросы участника (или IP без аутентификации) в рамках scope
func (m *RateLimitMiddleware) Limit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.GetString(UserIDKey)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}
		key := fmt.Sprintf("messenger:ratelimit:%s:%s", scope, subject)

		allowed, err := m.rateLimitService.Allow(c.Request.Context(), key)
		if err != nil {
			m.log.Error("Rate limit check failed", "error", err, "key", key)
			abortWithError(c, err)
			return
		}

		if !allowed {
			c.Header("Retry-After", "60")
			abortWithError(c, fmt.Errorf("too many %s requests: %w", scope, apperrors.ErrRateLimited))
			return
		}

		c.Next()
	}
}
