package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
)

// ReviewStateStore persists the per-(user, word) scheduling state.
//
// Writes for the same pair must be serialized. Implementations provide both a
// row lock (GetForUpdate) and a version check on Update; a write that lost a
// race returns ErrConflict rather than silently overwriting.
type ReviewStateStore interface {
	// Get retrieves the state for a user and word without locking.
	// Returns ErrReviewStateNotFound if the user never attempted the word.
	Get(ctx context.Context, userID, wordID uuid.UUID) (*domain.ReviewState, error)

	// GetForUpdate retrieves the state with a row-level lock. It must be used
	// inside a transaction when the caller intends to update the row.
	// Returns ErrReviewStateNotFound if the user never attempted the word.
	GetForUpdate(ctx context.Context, userID, wordID uuid.UUID) (*domain.ReviewState, error)

	// Create inserts the first state for a pair and sets state.Version to 1.
	// Returns ErrConflict if another writer created it first.
	Create(ctx context.Context, state *domain.ReviewState) error

	// Update writes state if the stored version still equals state.Version,
	// then increments state.Version.
	// Returns ErrConflict on a stale version and ErrReviewStateNotFound if the
	// row is gone.
	Update(ctx context.Context, state *domain.ReviewState) error

	// ListDue returns up to limit states with next review at or before now,
	// ordered by next review time ascending, then word ID.
	ListDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.ReviewState, error)

	// WithTx returns a new ReviewStateStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewStateStore
}
