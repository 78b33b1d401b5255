// Package main implements the StoreBoost API server, which fabricates
// sessions, generates product copy through a language model and keeps each
// session's generation history and credits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/phrazzld/storeboost-api/internal/config"
	"github.com/phrazzld/storeboost-api/internal/platform/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults to ./config.yaml when present)")
	migrate := flag.String("migrate", "", "run a migration command (up, down, reset, status, version) and exit")
	flag.Parse()

	// A missing .env is fine; the environment and config file still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *migrate); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// run loads configuration, then either applies a migration command or
// serves until ctx is cancelled.
func run(ctx context.Context, configPath, migrateCmd string) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"store_driver", cfg.Store.Driver,
		"llm_provider", cfg.LLM.Provider)

	if migrateCmd != "" {
		return handleMigrations(ctx, cfg, log, migrateCmd)
	}

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
