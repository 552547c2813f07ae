package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/lexis/internal/api"
	apiMiddleware "github.com/phrazzld/lexis/internal/api/middleware"
	"github.com/phrazzld/lexis/internal/api/shared"
)

// setupRouter builds the HTTP router with middleware and all routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	reviewHandler := api.NewReviewHandler(app.reviewService, app.scheduler, app.logger)
	r.Route("/api", reviewHandler.Routes)

	r.Get("/health", app.handleHealth)

	return r
}

// handleHealth reports whether the server and its database are reachable.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	if app.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := app.db.PingContext(ctx); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
