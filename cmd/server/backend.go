package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/storeboost-api/internal/config"
	"github.com/phrazzld/storeboost-api/internal/platform/filestore"
	"github.com/phrazzld/storeboost-api/internal/platform/memory"
	"github.com/phrazzld/storeboost-api/internal/platform/postgres"
	"github.com/phrazzld/storeboost-api/internal/platform/redisstore"
	"github.com/phrazzld/storeboost-api/internal/store"
)

// backend is a store implementing both the session and history contracts.
type backend interface {
	store.SessionStore
	store.HistoryStore
}

// openBackend opens the configured store. The returned closer releases its
// connections and is never nil.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (backend, io.Closer, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return memory.New(), nopCloser{}, nil

	case config.DriverFile:
		s, err := filestore.Open(cfg.Store.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db, logger, "up"); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		logger.Info("database connection established")
		return postgres.NewStore(db, logger), db, nil

	case config.DriverRedis:
		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("redis connection established", "addr", cfg.Redis.Addr)
		return redisstore.New(client, logger), client, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
