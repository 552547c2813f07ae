package review

import (
	"time"

	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/domain/srs"
)

// Default tuning values, matching the configuration defaults.
const (
	DefaultMaxDueWords           = 20
	DefaultConflictRetryAttempts = 3
	DefaultRetryDelay            = 10 * time.Millisecond

	// DefaultHistoryDays and MaxHistoryDays bound the window of History.
	DefaultHistoryDays = 14
	MaxHistoryDays     = 90
)

// Config tunes the review service. Zero fields take their defaults.
type Config struct {
	// MaxDueWords caps due reviews per session and DueReviews calls.
	MaxDueWords int

	// DefaultDailyNewWords applies to users without saved settings.
	DefaultDailyNewWords int

	// ConflictRetryAttempts is the total number of tries for RecordAttempt
	// when the review state changes underneath it.
	ConflictRetryAttempts int

	// RetryDelay is the base backoff between conflict retries.
	RetryDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxDueWords <= 0 {
		c.MaxDueWords = DefaultMaxDueWords
	}
	if c.DefaultDailyNewWords < domain.MinDailyNewWords || c.DefaultDailyNewWords > domain.MaxDailyNewWords {
		c.DefaultDailyNewWords = domain.DefaultDailyNewWords
	}
	if c.ConflictRetryAttempts <= 0 {
		c.ConflictRetryAttempts = DefaultConflictRetryAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	return c
}

// Option customizes a service built by NewService.
type Option func(*reviewService)

// WithClock replaces the wall clock. The returned time is converted to UTC.
func WithClock(now func() time.Time) Option {
	return func(s *reviewService) {
		if now != nil {
			s.now = func() time.Time { return now().UTC() }
		}
	}
}

// WithScheduler replaces the default scheduler.
func WithScheduler(scheduler srs.Service) Option {
	return func(s *reviewService) {
		if scheduler != nil {
			s.scheduler = scheduler
		}
	}
}

// historyDays clamps a requested History window to 1..MaxHistoryDays.
func historyDays(days int) int {
	switch {
	case days <= 0:
		return DefaultHistoryDays
	case days > MaxHistoryDays:
		return MaxHistoryDays
	default:
		return days
	}
}
