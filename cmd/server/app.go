package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lexis/internal/config"
	"github.com/phrazzld/lexis/internal/domain/srs"
	"github.com/phrazzld/lexis/internal/events"
	"github.com/phrazzld/lexis/internal/platform/postgres"
	"github.com/phrazzld/lexis/internal/service/review"
	"github.com/phrazzld/lexis/internal/store"
)

// application holds the shared dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	scheduler     srs.Service
	eventEmitter  events.EventEmitter
	reviewService review.Service
}

// newApplication wires stores, events and services on top of db.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	stores := postgres.NewStores(db, logger)
	tx := store.NewSQLTransactor(db, stores)
	return newApplicationWithTransactor(cfg, logger, db, tx), nil
}

// newApplicationWithTransactor wires the services on top of an existing
// transactor. db may be nil when the transactor does not need it.
func newApplicationWithTransactor(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	tx store.Transactor,
) *application {
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewLogHandler(logger))

	scheduler := srs.NewDefaultService()

	reviewService := review.NewService(tx, emitter, review.Config{
		MaxDueWords:           cfg.Review.MaxDueWords,
		DefaultDailyNewWords:  cfg.Review.DefaultDailyNewWords,
		ConflictRetryAttempts: cfg.Review.ConflictRetryAttempts,
	}, logger, review.WithScheduler(scheduler))

	logger.Info("Application initialized successfully")
	return &application{
		config:        cfg,
		logger:        logger,
		db:            db,
		scheduler:     scheduler,
		eventEmitter:  emitter,
		reviewService: reviewService,
	}
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("Application shutdown completed")
}
