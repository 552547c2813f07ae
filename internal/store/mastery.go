package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
)

// MasteryStore records which words each user has mastered.
type MasteryStore interface {
	// MarkMastered stores record unless one already exists for the pair.
	// It reports whether a new record was created; an existing record is not
	// an error and is left untouched.
	MarkMastered(ctx context.Context, record *domain.MasteryRecord) (bool, error)

	// Exists reports whether the user has mastered the word.
	Exists(ctx context.Context, userID, wordID uuid.UUID) (bool, error)

	// Count returns the number of words the user has mastered.
	Count(ctx context.Context, userID uuid.UUID) (int, error)

	// WithTx returns a new MasteryStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) MasteryStore
}
