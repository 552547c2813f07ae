package srs

import (
	"time"

	"github.com/phrazzld/lexis/internal/domain"
)

// Result is the scheduler's decision for one attempt.
type Result struct {
	NewRepetitionCount int       `json:"new_repetition_count"`
	NextReviewAt       time.Time `json:"next_review_at"`
	BecameMastered     bool      `json:"became_mastered"`
}

// computeNextReview maps an outcome and the current repetition count to the
// next count and review time.
//
//   - correct: advance one stage (capped at the last) and wait that stage's interval
//   - incorrect: forget all progress and retry after params.FastRetry
//   - skipped: keep the count and defer by params.SkipDeferral
//
// A correct answer that lands on the last stage qualifies the word for
// mastery, including when it was already there; recording mastery once is
// the store's job.
func computeNextReview(
	outcome domain.Outcome,
	currentCount int,
	now time.Time,
	params *Params,
) (Result, error) {
	if currentCount < domain.MinRepetitionCount || currentCount > domain.MaxRepetitionCount {
		return Result{}, &InvalidStateError{RepetitionCount: currentCount}
	}

	switch outcome {
	case domain.OutcomeCorrect:
		newCount := min(currentCount+1, domain.MaxRepetitionCount)
		stage, ok := params.stage(newCount)
		if !ok {
			return Result{}, &InvalidStateError{RepetitionCount: newCount}
		}
		return Result{
			NewRepetitionCount: newCount,
			NextReviewAt:       now.Add(stage.Interval),
			BecameMastered:     newCount == domain.MaxRepetitionCount,
		}, nil

	case domain.OutcomeIncorrect:
		return Result{
			NewRepetitionCount: 0,
			NextReviewAt:       now.Add(params.FastRetry),
		}, nil

	case domain.OutcomeSkipped:
		return Result{
			NewRepetitionCount: currentCount,
			NextReviewAt:       now.Add(params.SkipDeferral),
		}, nil

	default:
		return Result{}, &InvalidInputError{
			Field:  "outcome",
			Value:  outcome,
			Reason: "must be correct, incorrect or skipped",
		}
	}
}

// intervalLabel returns the learner-facing description of a stage.
func intervalLabel(stage int, params *Params) (string, error) {
	s, ok := params.stage(stage)
	if !ok {
		return "", &InvalidInputError{
			Field:  "stage",
			Value:  stage,
			Reason: "must be between 1 and 6",
		}
	}
	return s.Label, nil
}
