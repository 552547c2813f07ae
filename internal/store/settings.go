package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
)

// SettingsStore persists per-user session settings.
type SettingsStore interface {
	// Get returns the user's settings.
	// Returns ErrSettingsNotFound if the user never saved any.
	Get(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error)

	// Upsert creates or replaces the user's settings.
	Upsert(ctx context.Context, settings *domain.UserSettings) error

	// WithTx returns a new SettingsStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SettingsStore
}
