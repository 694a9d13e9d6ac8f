package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"messenger/internal/config"
	"messenger/internal/domain"
	"messenger/internal/metrics"
	"messenger/internal/middleware"
	"messenger/internal/service"
	"messenger/pkg/logger"
)

type Handlers struct {
	Health *HealthHandler
	Member *MemberHandler
	Chat   *ChatHandler
}

func NewHandlers(services *service.Services, db *pgxpool.Pool, rdb *redis.Client, log logger.Logger) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(db, rdb, log),
		Member: NewMemberHandler(services.Auth, services.Member, log),
		Chat:   NewChatHandler(services.Chat, log),
	}
}

// SetupRouter собирает gin engine со всеми маршрутами API
func SetupRouter(
	handlers *Handlers,
	services *service.Services,
	collector *metrics.Collector,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	authMiddleware := middleware.NewAuthMiddleware(services.Auth, log)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log, collector))
	router.Use(middleware.ErrorHandler(log))

	router.GET("/health", handlers.Health.Check)
	router.GET("/ready", handlers.Health.Ready)
	if collector != nil {
		router.GET("/metrics", gin.WrapH(collector.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("/members")
		{
			public.POST("", rateLimitMiddleware.Limit("signup"), handlers.Member.SignUp)
			public.POST("/login", rateLimitMiddleware.Limit("login"), handlers.Member.Login)
		}

		protected := v1.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			members := protected.Group("/members")
			{
				members.POST("/logout", handlers.Member.Logout)
				members.GET("", handlers.Member.List)
				members.GET("/:memberId", handlers.Member.GetByID)
				members.GET("/name/:name", handlers.Member.FindByName)
				members.PUT("/:memberId", handlers.Member.UpdateInfo)
			}

			chat := protected.Group("/chat")
			{
				chat.POST("", rateLimitMiddleware.Limit("send"), handlers.Chat.Send)
				chat.GET("", authMiddleware.RequireRole(domain.RoleAdmin), handlers.Chat.ListAll)
				chat.DELETE("/:chatId", handlers.Chat.Delete)
				chat.GET("/sent", handlers.Chat.ListSent)
				chat.GET("/received", handlers.Chat.ListReceived)
				chat.GET("/personal_chat/:oppositeId", handlers.Chat.ListGroup)
				chat.GET("/personal_chat/:oppositeId/enter", handlers.Chat.EnterGroup)
			}
		}
	}

	return router
}
