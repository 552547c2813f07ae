package postgres

import (
	"log/slog"

	"github.com/phrazzld/lexis/internal/store"
)

// NewStores builds every PostgreSQL store on the same connection.
func NewStores(db store.DBTX, logger *slog.Logger) store.Stores {
	return store.Stores{
		Words:        NewPostgresWordStore(db, logger),
		ReviewStates: NewPostgresReviewStateStore(db, logger),
		Attempts:     NewPostgresAttemptStore(db, logger),
		Mastery:      NewPostgresMasteryStore(db, logger),
		Settings:     NewPostgresSettingsStore(db, logger),
	}
}
