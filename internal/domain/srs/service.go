// Package srs implements the spaced-repetition scheduler: a fixed six-stage
// interval table, the transition rules between stages, and the due-set query.
// Everything here is pure and safe for concurrent use.
package srs

import (
	"time"

	"github.com/phrazzld/lexis/internal/domain"
)

// Service defines the interface for scheduler operations
type Service interface {
	// ComputeNextReview returns the next repetition count, the next review
	// time, and whether the attempt qualifies the word for mastery.
	ComputeNextReview(
		outcome domain.Outcome,
		currentRepetitionCount int,
		now time.Time,
	) (Result, error)

	// IntervalLabel returns the human-readable interval for a stage (1..6).
	IntervalLabel(stage int) (string, error)

	// Intervals returns a copy of the full stage table.
	Intervals() []Stage
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduler with the fixed stage table
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// ComputeNextReview implements Service.
func (s *defaultService) ComputeNextReview(
	outcome domain.Outcome,
	currentRepetitionCount int,
	now time.Time,
) (Result, error) {
	return computeNextReview(outcome, currentRepetitionCount, now, s.params)
}

// IntervalLabel implements Service.
func (s *defaultService) IntervalLabel(stage int) (string, error) {
	return intervalLabel(stage, s.params)
}

// Intervals implements Service.
func (s *defaultService) Intervals() []Stage {
	out := make([]Stage, len(s.params.Stages))
	copy(out, s.params.Stages)
	return out
}

var defaultParams = NewDefaultParams()

// ComputeNextReview runs the scheduler with the default stage table.
func ComputeNextReview(outcome domain.Outcome, currentRepetitionCount int, now time.Time) (Result, error) {
	return computeNextReview(outcome, currentRepetitionCount, now, defaultParams)
}

// IntervalLabel returns the default label for stage.
func IntervalLabel(stage int) (string, error) {
	return intervalLabel(stage, defaultParams)
}

// Intervals returns a copy of the default stage table.
func Intervals() []Stage {
	out := make([]Stage, len(defaultParams.Stages))
	copy(out, defaultParams.Stages)
	return out
}
