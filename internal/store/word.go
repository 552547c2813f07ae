package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
)

// WordStore is the read side of the word catalog plus the minimal writes the
// import tooling needs. Contribution and moderation workflows live elsewhere.
type WordStore interface {
	// Create saves a new word.
	// Returns ErrDuplicate if a word with the same ID exists.
	Create(ctx context.Context, word *domain.Word) error

	// GetByID retrieves a word by its unique ID.
	// Returns ErrWordNotFound if the word does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)

	// ListByIDs returns the words with the given IDs. Missing IDs are skipped;
	// the result order is unspecified.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Word, error)

	// ListUnattempted returns up to limit approved words the user has no review
	// state for, easiest first.
	ListUnattempted(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Word, error)

	// CountApproved returns the number of words eligible for review.
	CountApproved(ctx context.Context) (int, error)

	// WithTx returns a new WordStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) WordStore
}
