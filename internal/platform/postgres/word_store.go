package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/platform/logger"
	"github.com/phrazzld/lexis/internal/store"
)

const wordColumns = `id, source_text, target_text, difficulty_level, approved, created_at, updated_at`

// PostgresWordStore implements the store.WordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresWordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWordStore creates a new PostgreSQL implementation of the WordStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresWordStore(db store.DBTX, logger *slog.Logger) *PostgresWordStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWordStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_store")),
	}
}

// Ensure PostgresWordStore implements store.WordStore interface
var _ store.WordStore = (*PostgresWordStore)(nil)

// WithTx implements store.WordStore.WithTx
func (s *PostgresWordStore) WithTx(tx *sql.Tx) store.WordStore {
	return &PostgresWordStore{db: tx, logger: s.logger}
}

// Create implements store.WordStore.Create
func (s *PostgresWordStore) Create(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		log.Warn("word validation failed during create",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO words (` + wordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		word.ID,
		word.SourceText,
		word.TargetText,
		word.DifficultyLevel,
		word.Approved,
		word.CreatedAt,
		word.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create word",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return store.NewStoreError("word", "create", "insert failed", MapError(err))
	}

	log.Debug("word created",
		slog.String("word_id", word.ID.String()),
		slog.Bool("approved", word.Approved))
	return nil
}

// GetByID implements store.WordStore.GetByID
func (s *PostgresWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + wordColumns + ` FROM words WHERE id = $1`

	word, err := scanWord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("word not found", slog.String("word_id", id.String()))
			return nil, store.ErrWordNotFound
		}
		log.Error("failed to get word by ID",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return nil, store.NewStoreError("word", "get", "query failed", MapError(err))
	}

	return word, nil
}

// ListByIDs implements store.WordStore.ListByIDs
func (s *PostgresWordStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Word, error) {
	if len(ids) == 0 {
		return []*domain.Word{}, nil
	}

	query := `SELECT ` + wordColumns + ` FROM words WHERE id = ANY($1::uuid[])`
	return s.queryWords(ctx, "list_by_ids", query, uuidArray(ids))
}

// ListUnattempted implements store.WordStore.ListUnattempted
func (s *PostgresWordStore) ListUnattempted(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Word, error) {
	if limit <= 0 {
		return []*domain.Word{}, nil
	}

	query := `
		SELECT ` + wordColumns + `
		FROM words w
		WHERE w.approved
		  AND NOT EXISTS (
			SELECT 1 FROM review_states rs
			WHERE rs.user_id = $1 AND rs.word_id = w.id
		  )
		ORDER BY w.difficulty_level ASC, w.created_at ASC, w.id ASC
		LIMIT $2
	`
	return s.queryWords(ctx, "list_unattempted", query, userID, limit)
}

// CountApproved implements store.WordStore.CountApproved
func (s *PostgresWordStore) CountApproved(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words WHERE approved`).Scan(&n)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count approved words",
			slog.String("error", err.Error()))
		return 0, store.NewStoreError("word", "count", "query failed", MapError(err))
	}
	return n, nil
}

func (s *PostgresWordStore) queryWords(
	ctx context.Context,
	operation string,
	query string,
	args ...any,
) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query words",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("word", operation, "query failed", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	words := []*domain.Word{}
	for rows.Next() {
		word, err := scanWord(rows)
		if err != nil {
			return nil, store.NewStoreError("word", operation, "scan failed", err)
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("word", operation, "row iteration failed", MapError(err))
	}

	return words, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner) (*domain.Word, error) {
	var w domain.Word
	if err := row.Scan(
		&w.ID,
		&w.SourceText,
		&w.TargetText,
		&w.DifficultyLevel,
		&w.Approved,
		&w.CreatedAt,
		&w.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &w, nil
}

// uuidArray renders ids as a PostgreSQL array literal for a $n::uuid[] parameter.
func uuidArray(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}
