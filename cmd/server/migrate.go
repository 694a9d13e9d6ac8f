package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"messenger/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, appLogger, closeLog := bootstrap()
	defer func() { _ = closeLog() }()

	if cfg.MemoryMode() {
		return fmt.Errorf("DATABASE_DSN is not set, nothing to migrate")
	}

	ctx := context.Background()
	dbPool, err := connectDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	if err := repository.Migrate(ctx, dbPool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	appLogger.Info("Schema applied")
	return nil
}
