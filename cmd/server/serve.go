package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"messenger/internal/handler"
	"messenger/internal/metrics"
	"messenger/internal/repository"
	"messenger/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, appLogger, closeLog := bootstrap()
	defer func() { _ = closeLog() }()

	ctx := context.Background()

	var (
		dbPool *pgxpool.Pool
		rdb    *redis.Client
		repos  *repository.Repositories
	)

	if cfg.RedisEnabled() {
		client, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer client.Close()
		rdb = client
		appLogger.Info("Redis connection established")
	}

	if cfg.MemoryMode() {
		repos = repository.NewMemoryRepositories(rdb, appLogger)
	} else {
		pool, err := connectDatabase(ctx, cfg.Database)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", "error", err)
		}
		defer pool.Close()
		dbPool = pool
		appLogger.Info("Database connection established")

		if err := repository.Migrate(ctx, dbPool); err != nil {
			appLogger.Fatal("Failed to apply schema", "error", err)
		}
		repos = repository.NewRepositories(dbPool, rdb, appLogger)
	}

	collector := metrics.NewCollector()
	services := service.NewServices(repos, cfg, collector, appLogger)
	handlers := handler.NewHandlers(services, dbPool, rdb, appLogger)
	router := handler.SetupRouter(handlers, services, collector, cfg, appLogger)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		appLogger.Info("Starting server", "addr", srv.Addr, "memory_mode", cfg.MemoryMode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
		return err
	}

	appLogger.Info("Server exited")
	return nil
}
