package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/domain/srs"
	"github.com/phrazzld/lexis/internal/service/review"
)

// RecordAttemptRequest is the body of POST .../attempts.
type RecordAttemptRequest struct {
	Outcome string `json:"outcome" validate:"required"`
}

// UpdateSettingsRequest is the body of PUT .../settings.
type UpdateSettingsRequest struct {
	DailyNewWords int `json:"daily_new_words" validate:"min=1,max=100"`
}

// WordResponse is the client view of a catalog word.
type WordResponse struct {
	ID              uuid.UUID `json:"id"`
	SourceText      string    `json:"source_text"`
	TargetText      string    `json:"target_text"`
	DifficultyLevel int       `json:"difficulty_level"`
}

// ReviewStateResponse is the client view of a review state.
type ReviewStateResponse struct {
	WordID          uuid.UUID  `json:"word_id"`
	RepetitionCount int        `json:"repetition_count"`
	LastResult      string     `json:"last_result,omitempty"`
	NextReviewAt    *time.Time `json:"next_review_at,omitempty"`
	Attempted       bool       `json:"attempted"`
	Mastered        bool       `json:"mastered"`
}

// AttemptResponse is returned by POST .../attempts.
type AttemptResponse struct {
	AttemptID      uuid.UUID           `json:"attempt_id"`
	Outcome        string              `json:"outcome"`
	PreviousCount  int                 `json:"previous_count"`
	State          ReviewStateResponse `json:"state"`
	IntervalLabel  string              `json:"interval_label,omitempty"`
	BecameMastered bool                `json:"became_mastered"`
	NewlyMastered  bool                `json:"newly_mastered"`
}

// DueReviewResponse pairs a due word with its state.
type DueReviewResponse struct {
	Word  WordResponse        `json:"word"`
	State ReviewStateResponse `json:"state"`
}

// SessionResponse is returned by GET .../session.
type SessionResponse struct {
	GeneratedAt   time.Time           `json:"generated_at"`
	DailyNewWords int                 `json:"daily_new_words"`
	Due           []DueReviewResponse `json:"due"`
	New           []WordResponse      `json:"new"`
}

// SettingsResponse is returned by the settings endpoints.
type SettingsResponse struct {
	DailyNewWords int `json:"daily_new_words"`
}

// IntervalResponse describes one stage of the schedule.
type IntervalResponse struct {
	Stage           int    `json:"stage"`
	Label           string `json:"label"`
	IntervalSeconds int64  `json:"interval_seconds"`
}

func wordToResponse(w *domain.Word) WordResponse {
	return WordResponse{
		ID:              w.ID,
		SourceText:      w.SourceText,
		TargetText:      w.TargetText,
		DifficultyLevel: w.DifficultyLevel,
	}
}

func stateToResponse(s *domain.ReviewState) ReviewStateResponse {
	return ReviewStateResponse{
		WordID:          s.WordID,
		RepetitionCount: s.RepetitionCount,
		LastResult:      string(s.LastResult),
		NextReviewAt:    s.NextReviewAt,
		Attempted:       s.Attempted(),
		Mastered:        s.RepetitionCount == domain.MaxRepetitionCount,
	}
}

func attemptToResponse(res *review.AttemptResult) AttemptResponse {
	return AttemptResponse{
		AttemptID:      res.Attempt.ID,
		Outcome:        string(res.Attempt.Outcome),
		PreviousCount:  res.Attempt.PreviousCount,
		State:          stateToResponse(res.State),
		IntervalLabel:  res.IntervalLabel,
		BecameMastered: res.BecameMastered,
		NewlyMastered:  res.NewlyMastered,
	}
}

func dueToResponse(due []review.DueReview) []DueReviewResponse {
	out := make([]DueReviewResponse, len(due))
	for i, d := range due {
		out[i] = DueReviewResponse{
			Word:  wordToResponse(d.Word),
			State: stateToResponse(d.State),
		}
	}
	return out
}

func sessionToResponse(s *review.Session) SessionResponse {
	fresh := make([]WordResponse, len(s.New))
	for i, w := range s.New {
		fresh[i] = wordToResponse(w)
	}
	return SessionResponse{
		GeneratedAt:   s.GeneratedAt,
		DailyNewWords: s.DailyNewWords,
		Due:           dueToResponse(s.Due),
		New:           fresh,
	}
}

func intervalsToResponse(stages []srs.Stage) []IntervalResponse {
	out := make([]IntervalResponse, len(stages))
	for i, st := range stages {
		out[i] = IntervalResponse{
			Stage:           st.Number,
			Label:           st.Label,
			IntervalSeconds: int64(st.Interval.Seconds()),
		}
	}
	return out
}
