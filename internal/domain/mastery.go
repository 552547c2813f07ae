package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMasteryUserIDEmpty = errors.New("mastery record user ID cannot be empty")
	ErrMasteryWordIDEmpty = errors.New("mastery record word ID cannot be empty")
)

// MasteryRecord marks the first time a user reached the terminal repetition
// stage for a word. There is at most one record per (user, word).
type MasteryRecord struct {
	UserID     uuid.UUID `json:"user_id"`
	WordID     uuid.UUID `json:"word_id"`
	MasteredAt time.Time `json:"mastered_at"`
}

// Validate checks if the MasteryRecord has valid data.
func (m *MasteryRecord) Validate() error {
	if m.UserID == uuid.Nil {
		return ErrMasteryUserIDEmpty
	}
	if m.WordID == uuid.Nil {
		return ErrMasteryWordIDEmpty
	}
	return nil
}
