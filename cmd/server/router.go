package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/storeboost-api/internal/api"
	apiMiddleware "github.com/phrazzld/storeboost-api/internal/api/middleware"
)

// setupRouter registers middleware and routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(app.metrics.Middleware)
	if t := app.config.LLM.RequestTimeout; t > 0 {
		// Leave the model call its full budget plus time to store the result.
		r.Use(middleware.Timeout(t + requestTimeoutMargin))
	}

	sessionHandler := api.NewSessionHandler(app.sessions, app.copies, app.logger)
	generationHandler := api.NewGenerationHandler(app.copies, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokens)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions/signup", sessionHandler.Signup)
		r.Post("/sessions/login", sessionHandler.Login)
		r.Get("/options", api.Options)
		r.Get("/plans", api.Plans)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/session", sessionHandler.Current)
			r.Post("/generations", generationHandler.Create)
			r.Get("/generations", generationHandler.List)
		})
	})

	r.Get("/health", api.Health)
	r.Handle("/metrics", app.metrics.Handler())

	return r
}
