package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/platform/logger"
	"github.com/phrazzld/lexis/internal/store"
)

// PostgresMasteryStore implements the store.MasteryStore interface.
// A word is mastered at most once per user; the primary key enforces it.
type PostgresMasteryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMasteryStore creates a new PostgreSQL implementation of the MasteryStore interface.
func NewPostgresMasteryStore(db store.DBTX, logger *slog.Logger) *PostgresMasteryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMasteryStore{
		db:     db,
		logger: logger.With(slog.String("component", "mastery_store")),
	}
}

var _ store.MasteryStore = (*PostgresMasteryStore)(nil)

// WithTx implements store.MasteryStore.WithTx
func (s *PostgresMasteryStore) WithTx(tx *sql.Tx) store.MasteryStore {
	return &PostgresMasteryStore{db: tx, logger: s.logger}
}

// MarkMastered implements store.MasteryStore.MarkMastered
func (s *PostgresMasteryStore) MarkMastered(ctx context.Context, record *domain.MasteryRecord) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO mastery_records (user_id, word_id, mastered_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, word_id) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query, record.UserID, record.WordID, record.MasteredAt)
	if err != nil {
		log.Error("failed to mark word mastered",
			slog.String("error", err.Error()),
			slog.String("user_id", record.UserID.String()),
			slog.String("word_id", record.WordID.String()))
		return false, store.NewStoreError("mastery", "mark", "insert failed", MapError(err))
	}

	n, err := rowsAffected(result)
	if err != nil {
		return false, store.NewStoreError("mastery", "mark", "insert failed", err)
	}

	return n == 1, nil
}

// Exists implements store.MasteryStore.Exists
func (s *PostgresMasteryStore) Exists(ctx context.Context, userID, wordID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM mastery_records WHERE user_id = $1 AND word_id = $2)`,
		userID, wordID,
	).Scan(&exists)
	if err != nil {
		return false, store.NewStoreError("mastery", "exists", "query failed", MapError(err))
	}
	return exists, nil
}

// Count implements store.MasteryStore.Count
func (s *PostgresMasteryStore) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM mastery_records WHERE user_id = $1`,
		userID,
	).Scan(&n)
	if err != nil {
		return 0, store.NewStoreError("mastery", "count", "query failed", MapError(err))
	}
	return n, nil
}
