package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Bounds and default for the number of new words introduced per session.
const (
	DefaultDailyNewWords = 10
	MinDailyNewWords     = 1
	MaxDailyNewWords     = 100
)

var (
	ErrSettingsUserIDEmpty  = errors.New("settings user ID cannot be empty")
	ErrInvalidDailyNewWords = errors.New("daily new words must be between 1 and 100")
)

// UserSettings holds per-learner knobs consumed by the session builder.
type UserSettings struct {
	UserID        uuid.UUID `json:"user_id"`
	DailyNewWords int       `json:"daily_new_words"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DefaultUserSettings returns the settings used for a learner who never saved any.
func DefaultUserSettings(userID uuid.UUID, dailyNewWords int) *UserSettings {
	if dailyNewWords < MinDailyNewWords || dailyNewWords > MaxDailyNewWords {
		dailyNewWords = DefaultDailyNewWords
	}
	return &UserSettings{
		UserID:        userID,
		DailyNewWords: dailyNewWords,
	}
}

// Validate checks if the UserSettings has valid data.
func (s *UserSettings) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrSettingsUserIDEmpty
	}
	if s.DailyNewWords < MinDailyNewWords || s.DailyNewWords > MaxDailyNewWords {
		return ErrInvalidDailyNewWords
	}
	return nil
}
