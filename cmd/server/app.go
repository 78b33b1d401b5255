package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/storeboost-api/internal/config"
	"github.com/phrazzld/storeboost-api/internal/events"
	"github.com/phrazzld/storeboost-api/internal/generation"
	"github.com/phrazzld/storeboost-api/internal/platform/metrics"
	"github.com/phrazzld/storeboost-api/internal/platform/provider"
	"github.com/phrazzld/storeboost-api/internal/service"
	"github.com/phrazzld/storeboost-api/internal/service/auth"
)

// application holds the shared dependencies of the server so they can be
// released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	backend backend
	closer  io.Closer

	tokens    auth.TokenService
	generator generation.Generator
	metrics   *metrics.Metrics
	emitter   *events.InMemoryEmitter

	sessions service.SessionService
	copies   service.CopyService
}

// newApplication wires stores, the model provider and services from cfg.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	if cfg.Session.TokenSecret == "" {
		return nil, fmt.Errorf("session.token_secret is required to run the server")
	}

	tokens, err := auth.NewTokenService(cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	gen, err := provider.New(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized", "provider", cfg.LLM.Provider)

	b, closer, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}

	app, err := assemble(cfg, logger, b, closer, tokens, gen)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	return app, nil
}

// assemble builds the services around already-constructed dependencies.
func assemble(
	cfg *config.Config,
	logger *slog.Logger,
	b backend,
	closer io.Closer,
	tokens auth.TokenService,
	gen generation.Generator,
) (*application, error) {
	m := metrics.New()

	emitter := events.NewInMemoryEmitter(logger)
	emitter.Register(events.LogHandler(logger))
	emitter.Register(m.EventHandler())

	instrumented := m.InstrumentGenerator(gen, cfg.LLM.Provider)

	copies, err := service.NewCopyService(instrumented, b, b, logger,
		service.WithCreditEnforcement(cfg.Credits.Enforce),
		service.WithEmitter(emitter))
	if err != nil {
		return nil, fmt.Errorf("failed to create copy service: %w", err)
	}

	sessions, err := service.NewSessionService(b, tokens, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create session service: %w", err)
	}

	logger.Info("application initialized",
		"store_driver", cfg.Store.Driver,
		"credits_enforced", cfg.Credits.Enforce)

	return &application{
		config:    cfg,
		logger:    logger,
		backend:   b,
		closer:    closer,
		tokens:    tokens,
		generator: instrumented,
		metrics:   m,
		emitter:   emitter,
		sessions:  sessions,
		copies:    copies,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()
	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases store connections.
func (app *application) cleanup() {
	if app.closer != nil {
		if err := app.closer.Close(); err != nil {
			app.logger.Error("error closing store", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
