package database

import (
	"fmt"
	"path/filepath"

	"toolmove/internal/core/config"
	"toolmove/internal/database/migration"

	"go.uber.org/zap"
)

func RunMigrations(cfg config.PostgresConfig, logger *zap.Logger) error {
	if cfg.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	absPath, err := filepath.Abs(cfg.MigrationsDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	return migration.Migrate(cfg.URL, "file://"+absPath, true, logger)
}
