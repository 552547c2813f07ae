package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
)

// AttemptCounts summarizes a user's attempts over a window.
type AttemptCounts struct {
	Total   int
	Correct int
}

// DailyAttemptCounts summarizes a user's attempts on one UTC day.
type DailyAttemptCounts struct {
	// Day is the UTC midnight the counts start from.
	Day     time.Time
	Total   int
	Correct int
}

// AttemptStore is the append-only attempt log.
type AttemptStore interface {
	// Append records an attempt. Attempts are never updated or deleted.
	Append(ctx context.Context, attempt *domain.Attempt) error

	// CountSince counts the user's attempts that occurred at or after since.
	CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (AttemptCounts, error)

	// CountByDay groups the user's attempts at or after since by UTC day.
	// Only days with at least one attempt are returned, oldest first.
	CountByDay(ctx context.Context, userID uuid.UUID, since time.Time) ([]DailyAttemptCounts, error)

	// WithTx returns a new AttemptStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AttemptStore
}
