package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"messenger/internal/domain"
	"messenger/internal/service"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/logger"
)

const (
	CallerKey = "caller"
	UserIDKey = "user_id"
)

type AuthMiddleware struct {
	authService service.AuthService
	log         logger.Logger
}

func NewAuthMiddleware(authService service.AuthService, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		log:         log,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, fmt.Errorf("authorization header required: %w", apperrors.ErrUnauthenticated))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, fmt.Errorf("invalid authorization header format: %w", apperrors.ErrUnauthenticated))
			return
		}

		caller, err := m.authService.ResolveCaller(c.Request.Context(), parts[1])
		if err != nil {
			if apperrors.HTTPStatusFromError(err) == http.StatusInternalServerError {
				m.log.Error("Failed to resolve caller", "error", err)
			}
			abortWithError(c, err)
			return
		}

		c.Set(CallerKey, caller)
		c.Set(UserIDKey, caller.ID)
		c.Next()
	}
}

// RequireRole ставится после RequireAuth
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFromContext(c)
		if !ok {
			abortWithError(c, fmt.Errorf("caller: %w", apperrors.ErrUnauthenticated))
			return
		}
		if caller.Role != role {
			m.log.Warn("Access denied", "member_id", caller.ID, "role", caller.Role, "required_role", role)
			abortWithError(c, fmt.Errorf("%s role required: %w", role, apperrors.ErrForbidden))
			return
		}
		c.Next()
	}
}

func CallerFromContext(c *gin.Context) (*domain.Caller, bool) {
	v, ok := c.Get(CallerKey)
	if !ok {
		return nil, false
	}
	caller, ok := v.(*domain.Caller)
	return caller, ok && caller != nil
}

func abortWithError(c *gin.Context, err error) {
	apiErr := apperrors.FromError(err)
	c.AbortWithStatusJSON(apiErr.Code, apiErr)
}
