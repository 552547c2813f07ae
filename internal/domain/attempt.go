package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Attempt validation errors
var (
	ErrAttemptIDEmpty          = errors.New("attempt ID cannot be empty")
	ErrAttemptUserIDEmpty      = errors.New("attempt user ID cannot be empty")
	ErrAttemptWordIDEmpty      = errors.New("attempt word ID cannot be empty")
	ErrAttemptNotInFuture      = errors.New("attempt next review date must be after the attempt time")
	ErrAttemptCountOutOfBounds = errors.New("attempt repetition counts must be between 0 and 6")
)

// Attempt is one append-only quiz or flashcard interaction. It records the
// state transition it caused so the log can be audited independently of the
// current ReviewState.
type Attempt struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	WordID        uuid.UUID `json:"word_id"`
	Outcome       Outcome   `json:"outcome"`
	PreviousCount int       `json:"previous_count"`
	NewCount      int       `json:"new_count"`
	NextReviewAt  time.Time `json:"next_review_at"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Validate checks if the Attempt has valid data.
func (a *Attempt) Validate() error {
	if a.ID == uuid.Nil {
		return ErrAttemptIDEmpty
	}
	if a.UserID == uuid.Nil {
		return ErrAttemptUserIDEmpty
	}
	if a.WordID == uuid.Nil {
		return ErrAttemptWordIDEmpty
	}
	if !a.Outcome.Valid() {
		return ErrInvalidOutcome
	}
	if !inRepetitionBounds(a.PreviousCount) || !inRepetitionBounds(a.NewCount) {
		return ErrAttemptCountOutOfBounds
	}
	if !a.NextReviewAt.After(a.OccurredAt) {
		return ErrAttemptNotInFuture
	}
	return nil
}

func inRepetitionBounds(n int) bool {
	return n >= MinRepetitionCount && n <= MaxRepetitionCount
}
