package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/platform/logger"
	"github.com/phrazzld/lexis/internal/store"
)

// PostgresAttemptStore implements the store.AttemptStore interface
// on an append-only attempts table.
type PostgresAttemptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttemptStore creates a new PostgreSQL implementation of the AttemptStore interface.
func NewPostgresAttemptStore(db store.DBTX, logger *slog.Logger) *PostgresAttemptStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAttemptStore{
		db:     db,
		logger: logger.With(slog.String("component", "attempt_store")),
	}
}

var _ store.AttemptStore = (*PostgresAttemptStore)(nil)

// WithTx implements store.AttemptStore.WithTx
func (s *PostgresAttemptStore) WithTx(tx *sql.Tx) store.AttemptStore {
	return &PostgresAttemptStore{db: tx, logger: s.logger}
}

// Append implements store.AttemptStore.Append
func (s *PostgresAttemptStore) Append(ctx context.Context, attempt *domain.Attempt) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attempt.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO attempts (id, user_id, word_id, outcome, previous_count, new_count, next_review_at, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.WordID,
		string(attempt.Outcome),
		attempt.PreviousCount,
		attempt.NewCount,
		attempt.NextReviewAt,
		attempt.OccurredAt,
	)
	if err != nil {
		log.Error("failed to append attempt",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()),
			slog.String("user_id", attempt.UserID.String()))
		return store.NewStoreError("attempt", "append", "insert failed", MapError(err))
	}

	return nil
}

// CountSince implements store.AttemptStore.CountSince
func (s *PostgresAttemptStore) CountSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (store.AttemptCounts, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE outcome = $3)
		FROM attempts
		WHERE user_id = $1 AND occurred_at >= $2
	`

	var counts store.AttemptCounts
	err := s.db.QueryRowContext(ctx, query, userID, since, string(domain.OutcomeCorrect)).
		Scan(&counts.Total, &counts.Correct)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count attempts",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return store.AttemptCounts{}, store.NewStoreError("attempt", "count", "query failed", MapError(err))
	}

	return counts, nil
}

// CountByDay implements store.AttemptStore.CountByDay
func (s *PostgresAttemptStore) CountByDay(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]store.DailyAttemptCounts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT date_trunc('day', occurred_at AT TIME ZONE 'UTC') AS day,
			COUNT(*), COUNT(*) FILTER (WHERE outcome = $3)
		FROM attempts
		WHERE user_id = $1 AND occurred_at >= $2
		GROUP BY day
		ORDER BY day
	`

	rows, err := s.db.QueryContext(ctx, query, userID, since, string(domain.OutcomeCorrect))
	if err != nil {
		log.Error("failed to count attempts by day",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("attempt", "count_by_day", "query failed", MapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	var days []store.DailyAttemptCounts
	for rows.Next() {
		var d store.DailyAttemptCounts
		if err := rows.Scan(&d.Day, &d.Total, &d.Correct); err != nil {
			return nil, store.NewStoreError("attempt", "count_by_day", "scan failed", err)
		}
		d.Day = time.Date(d.Day.Year(), d.Day.Month(), d.Day.Day(), 0, 0, 0, 0, time.UTC)
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("attempt", "count_by_day", "iteration failed", MapError(err))
	}

	return days, nil
}
