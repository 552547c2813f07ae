package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/domain/srs"
	"github.com/phrazzld/lexis/internal/events"
	"github.com/phrazzld/lexis/internal/platform/logger"
	"github.com/phrazzld/lexis/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*reviewService)(nil)

type reviewService struct {
	tx        store.Transactor
	emitter   events.EventEmitter
	scheduler srs.Service
	cfg       Config
	now       func() time.Time
	logger    *slog.Logger
}

// NewService creates a review service. emitter may be nil, in which case no
// events are published.
func NewService(
	tx store.Transactor,
	emitter events.EventEmitter,
	cfg Config,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if tx == nil {
		panic("transactor cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &reviewService{
		tx:        tx,
		emitter:   emitter,
		scheduler: srs.NewDefaultService(),
		cfg:       cfg.withDefaults(),
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger.With(slog.String("component", "review_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordAttempt implements Service.RecordAttempt.
func (s *reviewService) RecordAttempt(
	ctx context.Context,
	userID uuid.UUID,
	wordID uuid.UUID,
	outcome domain.Outcome,
) (*AttemptResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("word_id", wordID.String()))

	if !outcome.Valid() {
		log.Warn("invalid review outcome", slog.String("outcome", string(outcome)))
		return nil, NewServiceError("record_attempt", "invalid outcome",
			fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome))
	}
	if userID == uuid.Nil || wordID == uuid.Nil {
		return nil, NewServiceError("record_attempt", "invalid identifiers", ErrInvalidID)
	}

	// One occurrence time for every retry of the same attempt.
	now := s.now()

	var result *AttemptResult
	err := retry.Do(
		func() error {
			res, err := s.recordAttemptTx(ctx, userID, wordID, outcome, now)
			if err != nil {
				return err
			}
			result = res
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(s.cfg.ConflictRetryAttempts)),
		retry.RetryIf(store.IsConflictError),
		retry.LastErrorOnly(true),
		retry.Delay(s.cfg.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			log.Info("retrying attempt after concurrent update",
				slog.Uint64("retry", uint64(n+1)),
				slog.String("error", err.Error()))
		}),
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrWordNotFound), errors.Is(err, ErrWordNotApproved):
			log.Debug("attempt rejected", slog.String("reason", err.Error()))
			return nil, NewServiceError("record_attempt", "word not reviewable", err)
		case store.IsConflictError(err):
			log.Warn("attempt abandoned after concurrent updates",
				slog.Int("attempts", s.cfg.ConflictRetryAttempts))
			return nil, NewServiceError("record_attempt", "too many concurrent updates",
				fmt.Errorf("%w: %w", ErrConcurrentUpdate, err))
		default:
			log.Error("failed to record attempt", slog.String("error", err.Error()))
			return nil, NewServiceError("record_attempt", "failed to record attempt", err)
		}
	}

	log.Debug("attempt recorded",
		slog.String("outcome", string(outcome)),
		slog.Int("previous_count", result.Attempt.PreviousCount),
		slog.Int("new_count", result.Attempt.NewCount),
		slog.Time("next_review_at", result.Attempt.NextReviewAt),
		slog.Bool("newly_mastered", result.NewlyMastered))

	s.emit(ctx, result)
	return result, nil
}

// recordAttemptTx runs one read-schedule-write cycle in a transaction.
func (s *reviewService) recordAttemptTx(
	ctx context.Context,
	userID uuid.UUID,
	wordID uuid.UUID,
	outcome domain.Outcome,
	now time.Time,
) (*AttemptResult, error) {
	var result *AttemptResult

	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		word, err := st.Words.GetByID(ctx, wordID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrWordNotFound
			}
			return fmt.Errorf("failed to get word: %w", err)
		}
		if !word.Approved {
			return ErrWordNotApproved
		}

		state, err := st.ReviewStates.GetForUpdate(ctx, userID, wordID)
		isNew := false
		switch {
		case errors.Is(err, store.ErrReviewStateNotFound):
			state, err = domain.NewReviewState(userID, wordID)
			if err != nil {
				return fmt.Errorf("failed to create review state: %w", err)
			}
			state.CreatedAt = now
			isNew = true
		case err != nil:
			return fmt.Errorf("failed to load review state: %w", err)
		}

		next, err := s.scheduler.ComputeNextReview(outcome, state.RepetitionCount, now)
		if err != nil {
			return fmt.Errorf("failed to compute next review: %w", err)
		}

		previous := state.RepetitionCount
		nextReviewAt := next.NextReviewAt
		state.RepetitionCount = next.NewRepetitionCount
		state.LastResult = outcome
		state.NextReviewAt = &nextReviewAt
		state.UpdatedAt = now

		if isNew {
			err = st.ReviewStates.Create(ctx, state)
		} else {
			err = st.ReviewStates.Update(ctx, state)
		}
		if err != nil {
			return fmt.Errorf("failed to save review state: %w", err)
		}

		attempt := &domain.Attempt{
			ID:            uuid.New(),
			UserID:        userID,
			WordID:        wordID,
			Outcome:       outcome,
			PreviousCount: previous,
			NewCount:      next.NewRepetitionCount,
			NextReviewAt:  nextReviewAt,
			OccurredAt:    now,
		}
		if err := st.Attempts.Append(ctx, attempt); err != nil {
			return fmt.Errorf("failed to append attempt: %w", err)
		}

		res := &AttemptResult{
			Attempt:        attempt,
			State:          state,
			BecameMastered: next.BecameMastered,
		}

		if outcome == domain.OutcomeCorrect {
			label, err := s.scheduler.IntervalLabel(next.NewRepetitionCount)
			if err != nil {
				return fmt.Errorf("failed to label interval: %w", err)
			}
			res.IntervalLabel = label
		}

		if next.BecameMastered {
			created, err := st.Mastery.MarkMastered(ctx, &domain.MasteryRecord{
				UserID:     userID,
				WordID:     wordID,
				MasteredAt: now,
			})
			if err != nil {
				return fmt.Errorf("failed to record mastery: %w", err)
			}
			res.NewlyMastered = created
		}

		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// emit publishes the events for a committed attempt. Handler failures are
// logged and never undo the attempt.
func (s *reviewService) emit(ctx context.Context, result *AttemptResult) {
	if s.emitter == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	a := result.Attempt

	recorded, err := events.NewEvent(events.TypeAttemptRecorded, events.AttemptRecordedPayload{
		AttemptID:     a.ID,
		UserID:        a.UserID,
		WordID:        a.WordID,
		Outcome:       string(a.Outcome),
		PreviousCount: a.PreviousCount,
		NewCount:      a.NewCount,
		NextReviewAt:  a.NextReviewAt,
	}, a.OccurredAt)
	if err == nil {
		err = s.emitter.EmitEvent(ctx, recorded)
	}
	if err != nil {
		log.Warn("failed to emit attempt event", slog.String("error", err.Error()))
	}

	if !result.NewlyMastered {
		return
	}

	mastered, err := events.NewEvent(events.TypeWordMastered, events.WordMasteredPayload{
		UserID:     a.UserID,
		WordID:     a.WordID,
		MasteredAt: a.OccurredAt,
	}, a.OccurredAt)
	if err == nil {
		err = s.emitter.EmitEvent(ctx, mastered)
	}
	if err != nil {
		log.Warn("failed to emit mastery event", slog.String("error", err.Error()))
	}
}

// DueReviews implements Service.DueReviews.
func (s *reviewService) DueReviews(ctx context.Context, userID uuid.UUID, limit int) ([]DueReview, error) {
	if limit <= 0 || limit > s.cfg.MaxDueWords {
		limit = s.cfg.MaxDueWords
	}

	due, err := s.dueReviews(ctx, userID, s.now(), limit)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list due reviews",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("due_reviews", "failed to list due reviews", err)
	}
	return due, nil
}

func (s *reviewService) dueReviews(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]DueReview, error) {
	stores := s.tx.Stores()

	states, err := stores.ReviewStates.ListDue(ctx, userID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due states: %w", err)
	}
	// Stores filter in SQL; DueSet re-establishes the ordering contract.
	states = srs.DueSet(states, now)
	if len(states) == 0 {
		return []DueReview{}, nil
	}

	ids := make([]uuid.UUID, len(states))
	for i, st := range states {
		ids[i] = st.WordID
	}
	words, err := stores.Words.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load due words: %w", err)
	}

	byID := make(map[uuid.UUID]*domain.Word, len(words))
	for _, w := range words {
		byID[w.ID] = w
	}

	out := make([]DueReview, 0, len(states))
	for _, st := range states {
		w, ok := byID[st.WordID]
		if !ok {
			continue
		}
		out = append(out, DueReview{Word: w, State: st})
	}
	return out, nil
}

// HasAttempted implements Service.HasAttempted.
func (s *reviewService) HasAttempted(ctx context.Context, userID uuid.UUID, wordID uuid.UUID) (bool, error) {
	state, err := s.tx.Stores().ReviewStates.Get(ctx, userID, wordID)
	if err != nil {
		if errors.Is(err, store.ErrReviewStateNotFound) {
			return false, nil
		}
		return false, NewServiceError("has_attempted", "failed to load review state", err)
	}
	return !srs.IsNew(state), nil
}

// ReviewState implements Service.ReviewState.
func (s *reviewService) ReviewState(
	ctx context.Context,
	userID uuid.UUID,
	wordID uuid.UUID,
) (*domain.ReviewState, error) {
	stores := s.tx.Stores()

	if _, err := stores.Words.GetByID(ctx, wordID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewServiceError("review_state", "word not found", ErrWordNotFound)
		}
		return nil, NewServiceError("review_state", "failed to get word", err)
	}

	state, err := stores.ReviewStates.Get(ctx, userID, wordID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, store.ErrReviewStateNotFound) {
		return nil, NewServiceError("review_state", "failed to load review state", err)
	}

	fresh, err := domain.NewReviewState(userID, wordID)
	if err != nil {
		return nil, NewServiceError("review_state", "invalid identifiers", fmt.Errorf("%w: %v", ErrInvalidID, err))
	}
	return fresh, nil
}

// BuildSession implements Service.BuildSession.
func (s *reviewService) BuildSession(ctx context.Context, userID uuid.UUID) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	due, err := s.dueReviews(ctx, userID, now, s.cfg.MaxDueWords)
	if err != nil {
		log.Error("failed to build session", slog.String("error", err.Error()))
		return nil, NewServiceError("build_session", "failed to list due reviews", err)
	}

	settings, err := s.settings(ctx, userID)
	if err != nil {
		return nil, NewServiceError("build_session", "failed to load settings", err)
	}

	fresh, err := s.tx.Stores().Words.ListUnattempted(ctx, userID, settings.DailyNewWords)
	if err != nil {
		log.Error("failed to list new words", slog.String("error", err.Error()))
		return nil, NewServiceError("build_session", "failed to list new words", err)
	}

	log.Debug("session built",
		slog.String("user_id", userID.String()),
		slog.Int("due", len(due)),
		slog.Int("new", len(fresh)))

	return &Session{
		UserID:        userID,
		GeneratedAt:   now,
		Due:           due,
		New:           fresh,
		DailyNewWords: settings.DailyNewWords,
	}, nil
}

// Progress implements Service.Progress.
func (s *reviewService) Progress(ctx context.Context, userID uuid.UUID) (*Progress, error) {
	stores := s.tx.Stores()
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	approved, err := stores.Words.CountApproved(ctx)
	if err != nil {
		return nil, NewServiceError("progress", "failed to count words", err)
	}

	mastered, err := stores.Mastery.Count(ctx, userID)
	if err != nil {
		return nil, NewServiceError("progress", "failed to count mastered words", err)
	}

	today, err := stores.Attempts.CountSince(ctx, userID, dayStart)
	if err != nil {
		return nil, NewServiceError("progress", "failed to count attempts", err)
	}

	return &Progress{
		UserID:          userID,
		ApprovedWords:   approved,
		MasteredWords:   mastered,
		DayStart:        dayStart,
		TodayAttempts:   today.Total,
		TodayCorrect:    today.Correct,
		AccuracyPercent: accuracyPercent(today.Correct, today.Total),
	}, nil
}

// History implements Service.History.
func (s *reviewService) History(ctx context.Context, userID uuid.UUID, days int) (*History, error) {
	days = historyDays(days)
	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day()-(days-1), 0, 0, 0, 0, time.UTC)

	counts, err := s.tx.Stores().Attempts.CountByDay(ctx, userID, from)
	if err != nil {
		return nil, NewServiceError("history", "failed to count attempts", err)
	}

	byDay := make(map[time.Time]store.DailyAttemptCounts, len(counts))
	for _, c := range counts {
		byDay[c.Day] = c
	}

	series := make([]DailyActivity, days)
	for i := range series {
		day := from.AddDate(0, 0, i)
		c := byDay[day]
		series[i] = DailyActivity{
			Day:             day,
			Attempts:        c.Total,
			Correct:         c.Correct,
			AccuracyPercent: accuracyPercent(c.Correct, c.Total),
		}
	}

	return &History{UserID: userID, From: from, Days: series}, nil
}

func accuracyPercent(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(total)))
}

// Settings implements Service.Settings.
func (s *reviewService) Settings(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	settings, err := s.settings(ctx, userID)
	if err != nil {
		return nil, NewServiceError("settings", "failed to load settings", err)
	}
	return settings, nil
}

func (s *reviewService) settings(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	settings, err := s.tx.Stores().Settings.Get(ctx, userID)
	if errors.Is(err, store.ErrSettingsNotFound) {
		return domain.DefaultUserSettings(userID, s.cfg.DefaultDailyNewWords), nil
	}
	return settings, err
}

// UpdateSettings implements Service.UpdateSettings.
func (s *reviewService) UpdateSettings(
	ctx context.Context,
	userID uuid.UUID,
	dailyNewWords int,
) (*domain.UserSettings, error) {
	settings := &domain.UserSettings{
		UserID:        userID,
		DailyNewWords: dailyNewWords,
		UpdatedAt:     s.now(),
	}
	if err := settings.Validate(); err != nil {
		return nil, NewServiceError("update_settings", "invalid settings",
			fmt.Errorf("%w: %v", ErrInvalidSettings, err))
	}

	if err := s.tx.Stores().Settings.Upsert(ctx, settings); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save settings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("update_settings", "failed to save settings", err)
	}
	return settings, nil
}
