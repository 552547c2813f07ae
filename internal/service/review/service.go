package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
)

// Service records review attempts and answers questions about what a user
// should review next. It is the only writer of review state.
type Service interface {
	// RecordAttempt applies one review outcome to the user's state for a word.
	//
	// In a single transaction it loads the current state (a word never seen
	// before starts at count 0), runs the scheduler, persists the new state,
	// appends the attempt and, when the word reaches the final stage, records
	// mastery once. Concurrent writes to the same state are retried.
	//
	// Returns:
	//   - ErrInvalidOutcome when outcome is not correct, incorrect or skipped
	//   - ErrInvalidID when either ID is nil
	//   - ErrWordNotFound when the word does not exist
	//   - ErrWordNotApproved when the word is still awaiting moderation
	//   - ErrConcurrentUpdate when retries are exhausted
	RecordAttempt(
		ctx context.Context,
		userID uuid.UUID,
		wordID uuid.UUID,
		outcome domain.Outcome,
	) (*AttemptResult, error)

	// DueReviews returns up to limit words due now, oldest due first. A
	// non-positive limit uses the configured session maximum.
	DueReviews(ctx context.Context, userID uuid.UUID, limit int) ([]DueReview, error)

	// HasAttempted reports whether the user has reviewed the word at least once.
	HasAttempted(ctx context.Context, userID uuid.UUID, wordID uuid.UUID) (bool, error)

	// ReviewState returns the user's state for the word. A word the user never
	// attempted yields an unattempted state with Version 0.
	// Returns ErrWordNotFound when the word does not exist.
	ReviewState(ctx context.Context, userID uuid.UUID, wordID uuid.UUID) (*domain.ReviewState, error)

	// BuildSession assembles a study session: due reviews first, then up to
	// the user's daily allowance of never-attempted approved words.
	BuildSession(ctx context.Context, userID uuid.UUID) (*Session, error)

	// Progress summarizes the user's catalog coverage and today's activity.
	Progress(ctx context.Context, userID uuid.UUID) (*Progress, error)

	// History returns the user's attempts per UTC day for the last days days,
	// today included. Days without attempts are present with zero counts. A
	// non-positive days uses DefaultHistoryDays; larger windows are capped at
	// MaxHistoryDays.
	History(ctx context.Context, userID uuid.UUID, days int) (*History, error)

	// Settings returns the user's settings, or the defaults if none were saved.
	Settings(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error)

	// UpdateSettings stores the number of new words offered per session.
	// Returns ErrInvalidSettings when dailyNewWords is outside 1..100.
	UpdateSettings(ctx context.Context, userID uuid.UUID, dailyNewWords int) (*domain.UserSettings, error)
}

// AttemptResult is the outcome of RecordAttempt.
type AttemptResult struct {
	Attempt *domain.Attempt     `json:"attempt"`
	State   *domain.ReviewState `json:"state"`

	// IntervalLabel names the stage reached by a correct answer, e.g. "1 week".
	// It is empty for incorrect and skipped outcomes.
	IntervalLabel string `json:"interval_label,omitempty"`

	// BecameMastered is true whenever the new count is the final stage.
	BecameMastered bool `json:"became_mastered"`

	// NewlyMastered is true only for the attempt that created the mastery record.
	NewlyMastered bool `json:"newly_mastered"`
}

// DueReview pairs a due state with its word.
type DueReview struct {
	Word  *domain.Word        `json:"word"`
	State *domain.ReviewState `json:"state"`
}

// Session is an ordered list of words to study now.
type Session struct {
	UserID        uuid.UUID      `json:"user_id"`
	GeneratedAt   time.Time      `json:"generated_at"`
	Due           []DueReview    `json:"due"`
	New           []*domain.Word `json:"new"`
	DailyNewWords int            `json:"daily_new_words"`
}

// Progress is a dashboard summary for one user.
type Progress struct {
	UserID        uuid.UUID `json:"user_id"`
	ApprovedWords int       `json:"approved_words"`
	MasteredWords int       `json:"mastered_words"`

	// DayStart is the UTC midnight the Today* counters start from.
	DayStart        time.Time `json:"day_start"`
	TodayAttempts   int       `json:"today_attempts"`
	TodayCorrect    int       `json:"today_correct"`
	AccuracyPercent int       `json:"accuracy_percent"`
}

// DailyActivity is one day of a History.
type DailyActivity struct {
	Day             time.Time `json:"day"`
	Attempts        int       `json:"attempts"`
	Correct         int       `json:"correct"`
	AccuracyPercent int       `json:"accuracy_percent"`
}

// History is a per-day activity series, oldest day first.
type History struct {
	UserID uuid.UUID       `json:"user_id"`
	From   time.Time       `json:"from"`
	Days   []DailyActivity `json:"days"`
}

// Common error types for the review service
var (
	// ErrInvalidOutcome indicates an outcome other than correct, incorrect or skipped.
	ErrInvalidOutcome = domain.ErrInvalidOutcome

	// ErrInvalidID indicates a nil user or word ID.
	ErrInvalidID = errors.New("invalid user or word ID")

	// ErrWordNotFound indicates that the word does not exist.
	ErrWordNotFound = errors.New("word not found")

	// ErrWordNotApproved indicates that the word is not yet eligible for review.
	ErrWordNotApproved = errors.New("word not approved for review")

	// ErrInvalidSettings indicates settings outside the accepted range.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrConcurrentUpdate indicates that concurrent attempts on the same word
	// kept winning the race until retries ran out.
	ErrConcurrentUpdate = errors.New("review state changed concurrently")
)

// ServiceError wraps errors from the review service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "record_attempt", "build_session")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a ServiceError for operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
