package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/storeboost-api/internal/config"
	"github.com/phrazzld/storeboost-api/internal/platform/postgres"
)

// handleMigrations runs a goose command against the configured database.
func handleMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger, command string) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("migrations require database.url")
	}

	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("error closing database connection", "error", cerr)
		}
	}()

	logger.Info("executing migrations", "command", command)
	if err := postgres.Migrate(ctx, db, logger, command); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	logger.Info("migrations completed", "command", command)
	return nil
}
