package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/platform/logger"
	"github.com/phrazzld/lexis/internal/store"
)

const reviewStateColumns = `user_id, word_id, repetition_count, last_result, next_review_at, version, created_at, updated_at`

// PostgresReviewStateStore implements the store.ReviewStateStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStateStore creates a new PostgreSQL implementation of the ReviewStateStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresReviewStateStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStateStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_state_store")),
	}
}

// Ensure PostgresReviewStateStore implements store.ReviewStateStore interface
var _ store.ReviewStateStore = (*PostgresReviewStateStore)(nil)

// WithTx implements store.ReviewStateStore.WithTx
func (s *PostgresReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return &PostgresReviewStateStore{db: tx, logger: s.logger}
}

// Get implements store.ReviewStateStore.Get
func (s *PostgresReviewStateStore) Get(
	ctx context.Context,
	userID, wordID uuid.UUID,
) (*domain.ReviewState, error) {
	query := `SELECT ` + reviewStateColumns + ` FROM review_states WHERE user_id = $1 AND word_id = $2`
	return s.getOne(ctx, "get", query, userID, wordID)
}

// GetForUpdate implements store.ReviewStateStore.GetForUpdate
// The row lock is held until the surrounding transaction ends.
func (s *PostgresReviewStateStore) GetForUpdate(
	ctx context.Context,
	userID, wordID uuid.UUID,
) (*domain.ReviewState, error) {
	query := `SELECT ` + reviewStateColumns + `
		FROM review_states
		WHERE user_id = $1 AND word_id = $2
		FOR UPDATE`
	return s.getOne(ctx, "get_for_update", query, userID, wordID)
}

func (s *PostgresReviewStateStore) getOne(
	ctx context.Context,
	operation string,
	query string,
	userID, wordID uuid.UUID,
) (*domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	state, err := scanReviewState(s.db.QueryRowContext(ctx, query, userID, wordID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReviewStateNotFound
		}
		log.Error("failed to get review state",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()))
		return nil, store.NewStoreError("review_state", operation, "query failed", MapError(err))
	}

	return state, nil
}

// Create implements store.ReviewStateStore.Create
func (s *PostgresReviewStateStore) Create(ctx context.Context, state *domain.ReviewState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	// ON CONFLICT keeps a lost race from aborting the caller's transaction.
	query := `
		INSERT INTO review_states (` + reviewStateColumns + `)
		VALUES ($1, $2, $3, $4, $5, 1, $6, $7)
		ON CONFLICT (user_id, word_id) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query,
		state.UserID,
		state.WordID,
		state.RepetitionCount,
		nullOutcome(state.LastResult),
		nullTime(state.NextReviewAt),
		state.CreatedAt,
		state.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create review state",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()),
			slog.String("word_id", state.WordID.String()))
		return store.NewStoreError("review_state", "create", "insert failed", MapError(err))
	}

	n, err := rowsAffected(result)
	if err != nil {
		return store.NewStoreError("review_state", "create", "insert failed", err)
	}
	if n == 0 {
		log.Info("review state created concurrently",
			slog.String("user_id", state.UserID.String()),
			slog.String("word_id", state.WordID.String()))
		return fmt.Errorf("%w: review state already exists", store.ErrConflict)
	}

	state.Version = 1
	return nil
}

// Update implements store.ReviewStateStore.Update
func (s *PostgresReviewStateStore) Update(ctx context.Context, state *domain.ReviewState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE review_states
		SET repetition_count = $1,
			last_result = $2,
			next_review_at = $3,
			version = version + 1,
			updated_at = $4
		WHERE user_id = $5 AND word_id = $6 AND version = $7
	`
	result, err := s.db.ExecContext(ctx, query,
		state.RepetitionCount,
		nullOutcome(state.LastResult),
		nullTime(state.NextReviewAt),
		state.UpdatedAt,
		state.UserID,
		state.WordID,
		state.Version,
	)
	if err != nil {
		log.Error("failed to update review state",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()),
			slog.String("word_id", state.WordID.String()))
		return store.NewStoreError("review_state", "update", "update failed", MapError(err))
	}

	n, err := rowsAffected(result)
	if err != nil {
		return store.NewStoreError("review_state", "update", "update failed", err)
	}
	if n == 0 {
		return s.explainMissedUpdate(ctx, state)
	}

	state.Version++
	return nil
}

// explainMissedUpdate tells a stale version apart from a deleted row.
func (s *PostgresReviewStateStore) explainMissedUpdate(ctx context.Context, state *domain.ReviewState) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM review_states WHERE user_id = $1 AND word_id = $2)`,
		state.UserID, state.WordID,
	).Scan(&exists)
	if err != nil {
		return store.NewStoreError("review_state", "update", "existence check failed", MapError(err))
	}

	if !exists {
		return store.ErrReviewStateNotFound
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("stale review state version",
		slog.String("user_id", state.UserID.String()),
		slog.String("word_id", state.WordID.String()),
		slog.Int64("version", state.Version))
	return fmt.Errorf("%w: review state version %d is stale", store.ErrConflict, state.Version)
}

// ListDue implements store.ReviewStateStore.ListDue
func (s *PostgresReviewStateStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		return []*domain.ReviewState{}, nil
	}

	query := `
		SELECT ` + reviewStateColumns + `
		FROM review_states
		WHERE user_id = $1 AND next_review_at <= $2
		ORDER BY next_review_at ASC, word_id ASC
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, now, limit)
	if err != nil {
		log.Error("failed to list due review states",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("review_state", "list_due", "query failed", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	states := []*domain.ReviewState{}
	for rows.Next() {
		state, err := scanReviewState(rows)
		if err != nil {
			return nil, store.NewStoreError("review_state", "list_due", "scan failed", err)
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("review_state", "list_due", "row iteration failed", MapError(err))
	}

	log.Debug("listed due review states",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(states)))
	return states, nil
}

func scanReviewState(row rowScanner) (*domain.ReviewState, error) {
	var (
		st         domain.ReviewState
		lastResult sql.NullString
		nextReview sql.NullTime
	)
	if err := row.Scan(
		&st.UserID,
		&st.WordID,
		&st.RepetitionCount,
		&lastResult,
		&nextReview,
		&st.Version,
		&st.CreatedAt,
		&st.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if lastResult.Valid {
		st.LastResult = domain.Outcome(lastResult.String)
	}
	if nextReview.Valid {
		t := nextReview.Time.UTC()
		st.NextReviewAt = &t
	}
	return &st, nil
}

func nullOutcome(o domain.Outcome) sql.NullString {
	return sql.NullString{String: string(o), Valid: o != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
