package srs

import (
	"time"

	"github.com/phrazzld/lexis/internal/domain"
)

// Day is a fixed 24-hour day. Intervals are measured in elapsed time from the
// attempt, not in calendar days, so DST transitions do not shift them.
const Day = 24 * time.Hour

// Stage describes one rung of the repetition ladder.
type Stage struct {
	Number   int           `json:"stage"`
	Interval time.Duration `json:"interval"`
	Label    string        `json:"label"`
}

// Params defines all parameters of the scheduler.
type Params struct {
	// Stages is indexed by stage number minus one. Its length is
	// domain.MaxRepetitionCount.
	Stages []Stage

	// FastRetry is the delay after an incorrect answer.
	FastRetry time.Duration

	// SkipDeferral is the delay after a skipped review.
	SkipDeferral time.Duration
}

// NewDefaultParams returns the fixed stage table shown to learners.
// The values are a contract with the UI copy ("reviewed in 1 week", ...).
func NewDefaultParams() *Params {
	return &Params{
		Stages: []Stage{
			{Number: 1, Interval: 1 * Day, Label: "1 day"},
			{Number: 2, Interval: 7 * Day, Label: "1 week"},
			{Number: 3, Interval: 30 * Day, Label: "1 month"},
			{Number: 4, Interval: 90 * Day, Label: "3 months"},
			{Number: 5, Interval: 180 * Day, Label: "6 months"},
			{Number: 6, Interval: 365 * Day, Label: "1 year"},
		},
		FastRetry:    10 * time.Minute,
		SkipDeferral: 1 * Day,
	}
}

// stage returns the stage for n, which must be in 1..MaxRepetitionCount.
func (p *Params) stage(n int) (Stage, bool) {
	if n < 1 || n > domain.MaxRepetitionCount || n > len(p.Stages) {
		return Stage{}, false
	}
	return p.Stages[n-1], true
}
