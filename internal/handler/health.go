package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"messenger/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// HealthHandler: db и redis могут быть nil (режим в памяти / без Redis)
type HealthHandler struct {
	db    *pgxpool.Pool
	redis *redis.Client
	log   logger.Logger
}

func NewHealthHandler(db *pgxpool.Pool, redis *redis.Client, log logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redis,
		log:   log,
	}
}

func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "messenger",
	})
}

// Ready проверяет доступность хранилищ
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	checks := gin.H{"database": "memory", "redis": "disabled"}
	ready := true

	if h.db != nil {
		checks["database"] = "ok"
		if err := h.db.Ping(ctx); err != nil {
			h.log.Error("Database ping failed", "error", err)
			checks["database"] = "unavailable"
			ready = false
		}
	}
	if h.redis != nil {
		checks["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			h.log.Error("Redis ping failed", "error", err)
			checks["redis"] = "unavailable"
			ready = false
		}
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "checks": checks})
}
