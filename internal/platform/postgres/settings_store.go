package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/platform/logger"
	"github.com/phrazzld/lexis/internal/store"
)

// PostgresSettingsStore implements the store.SettingsStore interface.
type PostgresSettingsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSettingsStore creates a new PostgreSQL implementation of the SettingsStore interface.
func NewPostgresSettingsStore(db store.DBTX, logger *slog.Logger) *PostgresSettingsStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSettingsStore{
		db:     db,
		logger: logger.With(slog.String("component", "settings_store")),
	}
}

var _ store.SettingsStore = (*PostgresSettingsStore)(nil)

// WithTx implements store.SettingsStore.WithTx
func (s *PostgresSettingsStore) WithTx(tx *sql.Tx) store.SettingsStore {
	return &PostgresSettingsStore{db: tx, logger: s.logger}
}

// Get implements store.SettingsStore.Get
func (s *PostgresSettingsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	var settings domain.UserSettings
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, daily_new_words, updated_at FROM user_settings WHERE user_id = $1`,
		userID,
	).Scan(&settings.UserID, &settings.DailyNewWords, &settings.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSettingsNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get user settings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("settings", "get", "query failed", MapError(err))
	}

	return &settings, nil
}

// Upsert implements store.SettingsStore.Upsert
func (s *PostgresSettingsStore) Upsert(ctx context.Context, settings *domain.UserSettings) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO user_settings (user_id, daily_new_words, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET daily_new_words = EXCLUDED.daily_new_words,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query,
		settings.UserID,
		settings.DailyNewWords,
		settings.UpdatedAt,
	); err != nil {
		log.Error("failed to upsert user settings",
			slog.String("error", err.Error()),
			slog.String("user_id", settings.UserID.String()))
		return store.NewStoreError("settings", "upsert", "upsert failed", MapError(err))
	}

	log.Debug("user settings saved",
		slog.String("user_id", settings.UserID.String()),
		slog.Int("daily_new_words", settings.DailyNewWords))
	return nil
}
