package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repetition count bounds. Zero means "no successful recall yet" and
// MaxRepetitionCount is the terminal stage at which a word is mastered.
const (
	MinRepetitionCount = 0
	MaxRepetitionCount = 6
)

// Common validation errors for ReviewState
var (
	ErrEmptyStateUserID          = errors.New("review state user ID cannot be empty")
	ErrEmptyStateWordID          = errors.New("review state word ID cannot be empty")
	ErrInvalidRepetitionCount    = errors.New("repetition count must be between 0 and 6")
	ErrInvalidLastResult         = errors.New("review state last result is invalid")
	ErrMissingNextReviewAt       = errors.New("attempted review state must have a next review date")
	ErrUnexpectedNextReviewAt    = errors.New("unattempted review state cannot have a next review date")
	ErrInvalidReviewStateVersion = errors.New("review state version cannot be negative")
)

// ReviewState is a user's scheduling state for one word.
//
// A state with a nil NextReviewAt has never been attempted. Version is an
// optimistic-concurrency token owned by the store: zero means the state has
// not been persisted yet.
type ReviewState struct {
	UserID          uuid.UUID  `json:"user_id"`
	WordID          uuid.UUID  `json:"word_id"`
	RepetitionCount int        `json:"repetition_count"`
	LastResult      Outcome    `json:"last_result,omitempty"`
	NextReviewAt    *time.Time `json:"next_review_at,omitempty"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewReviewState creates an unattempted, unpersisted state for a user and word.
func NewReviewState(userID, wordID uuid.UUID) (*ReviewState, error) {
	now := time.Now().UTC()
	state := &ReviewState{
		UserID:    userID,
		WordID:    wordID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Attempted reports whether the user has ever reviewed this word.
func (s *ReviewState) Attempted() bool {
	return s != nil && s.NextReviewAt != nil
}

// IsDue reports whether the state is due for review at now.
// Unattempted states are never due; they are admitted as new words instead.
func (s *ReviewState) IsDue(now time.Time) bool {
	return s.Attempted() && !s.NextReviewAt.After(now)
}

// Validate checks if the ReviewState has valid data.
func (s *ReviewState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyStateUserID
	}

	if s.WordID == uuid.Nil {
		return ErrEmptyStateWordID
	}

	if s.RepetitionCount < MinRepetitionCount || s.RepetitionCount > MaxRepetitionCount {
		return ErrInvalidRepetitionCount
	}

	if s.Version < 0 {
		return ErrInvalidReviewStateVersion
	}

	if s.LastResult == "" {
		if s.NextReviewAt != nil {
			return ErrUnexpectedNextReviewAt
		}
		return nil
	}

	if !s.LastResult.Valid() {
		return ErrInvalidLastResult
	}

	if s.NextReviewAt == nil {
		return ErrMissingNextReviewAt
	}

	return nil
}
