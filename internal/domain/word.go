package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty bounds for a Word.
const (
	MinDifficultyLevel = 1
	MaxDifficultyLevel = 5
)

// Word-specific validation errors
var (
	// ErrWordIDEmpty is returned when a word ID is empty or nil.
	ErrWordIDEmpty = errors.New("word ID cannot be empty")

	// ErrWordSourceTextEmpty is returned when the source-language text is blank.
	ErrWordSourceTextEmpty = errors.New("word source text cannot be empty")

	// ErrWordTargetTextEmpty is returned when the target-language text is blank.
	ErrWordTargetTextEmpty = errors.New("word target text cannot be empty")

	// ErrWordDifficultyInvalid is returned when the difficulty is outside 1..5.
	ErrWordDifficultyInvalid = errors.New("word difficulty level must be between 1 and 5")
)

// Word is an entry of the shared vocabulary catalog. Words are contributed by
// users and only become eligible for review once a moderator approves them.
type Word struct {
	ID              uuid.UUID `json:"id"`
	SourceText      string    `json:"source_text"`
	TargetText      string    `json:"target_text"`
	DifficultyLevel int       `json:"difficulty_level"`
	Approved        bool      `json:"approved"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewWord creates an unapproved Word with a fresh ID.
// Returns an error if validation fails.
func NewWord(sourceText, targetText string, difficulty int) (*Word, error) {
	now := time.Now().UTC()
	word := &Word{
		ID:              uuid.New(),
		SourceText:      strings.TrimSpace(sourceText),
		TargetText:      strings.TrimSpace(targetText),
		DifficultyLevel: difficulty,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := word.Validate(); err != nil {
		return nil, err
	}

	return word, nil
}

// Validate checks if the Word has valid data.
func (w *Word) Validate() error {
	if w.ID == uuid.Nil {
		return ErrWordIDEmpty
	}

	if strings.TrimSpace(w.SourceText) == "" {
		return ErrWordSourceTextEmpty
	}

	if strings.TrimSpace(w.TargetText) == "" {
		return ErrWordTargetTextEmpty
	}

	if w.DifficultyLevel < MinDifficultyLevel || w.DifficultyLevel > MaxDifficultyLevel {
		return ErrWordDifficultyInvalid
	}

	return nil
}

// Approve marks the word as eligible for review.
func (w *Word) Approve() {
	w.Approved = true
	w.UpdatedAt = time.Now().UTC()
}
