package review_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/domain/srs"
	"github.com/phrazzld/lexis/internal/events"
	"github.com/phrazzld/lexis/internal/mocks"
	"github.com/phrazzld/lexis/internal/platform/logger"
	"github.com/phrazzld/lexis/internal/service/review"
	"github.com/phrazzld/lexis/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type fixture struct {
	db     *mocks.MemoryDB
	stores store.Stores
	tx     *mocks.MockTransactor
	svc    review.Service
	events *eventRecorder
	userID uuid.UUID
	logBuf *logger.TestLogBuffer
}

type eventRecorder struct {
	mu     sync.Mutex
	events []*events.Event
}

func (r *eventRecorder) HandleEvent(ctx context.Context, event *events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) ofType(eventType string) []*events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*events.Event
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func newFixture(t *testing.T, cfg review.Config) *fixture {
	t.Helper()

	db := mocks.NewMemoryDB()
	stores := db.NewStores()
	tx := mocks.NewMockTransactor(db, &stores)

	log, buf := logger.GetTestLogger(t)
	emitter := events.NewInMemoryEventEmitter(log)
	rec := &eventRecorder{}
	emitter.RegisterHandler(rec)

	svc := review.NewService(tx, emitter, cfg, log,
		review.WithClock(func() time.Time { return testNow }))

	return &fixture{
		db:     db,
		stores: stores,
		tx:     tx,
		svc:    svc,
		events: rec,
		userID: uuid.New(),
		logBuf: buf,
	}
}

func (f *fixture) addWord(t *testing.T, source string, difficulty int, approved bool) *domain.Word {
	t.Helper()
	w, err := domain.NewWord(source, source+"-target", difficulty)
	require.NoError(t, err)
	w.Approved = approved
	w.CreatedAt = testNow.Add(-time.Hour)
	require.NoError(t, f.stores.Words.Create(context.Background(), w))
	return w
}

func (f *fixture) setState(wordID uuid.UUID, count int, next time.Time) {
	f.db.SetState(&domain.ReviewState{
		UserID:          f.userID,
		WordID:          wordID,
		RepetitionCount: count,
		LastResult:      domain.OutcomeCorrect,
		NextReviewAt:    &next,
		CreatedAt:       testNow.Add(-48 * time.Hour),
		UpdatedAt:       testNow.Add(-48 * time.Hour),
	})
}

func (f *fixture) state(t *testing.T, wordID uuid.UUID) *domain.ReviewState {
	t.Helper()
	s, err := f.stores.ReviewStates.Get(context.Background(), f.userID, wordID)
	require.NoError(t, err)
	return s
}

func TestNewService_NilTransactorPanics(t *testing.T) {
	assert.Panics(t, func() {
		review.NewService(nil, nil, review.Config{}, nil)
	})
}

func TestRecordAttempt_Transitions(t *testing.T) {
	tests := []struct {
		name         string
		startCount   int
		attempted    bool
		outcome      domain.Outcome
		wantCount    int
		wantDelay    time.Duration
		wantLabel    string
		wantMastered bool
	}{
		{"first correct", 0, false, domain.OutcomeCorrect, 1, srs.Day, "1 day", false},
		{"first incorrect", 0, false, domain.OutcomeIncorrect, 0, 10 * time.Minute, "", false},
		{"first skipped", 0, false, domain.OutcomeSkipped, 0, srs.Day, "", false},
		{"correct from stage 1", 1, true, domain.OutcomeCorrect, 2, 7 * srs.Day, "1 week", false},
		{"correct from stage 2", 2, true, domain.OutcomeCorrect, 3, 30 * srs.Day, "1 month", false},
		{"correct from stage 3", 3, true, domain.OutcomeCorrect, 4, 90 * srs.Day, "3 months", false},
		{"correct from stage 4", 4, true, domain.OutcomeCorrect, 5, 180 * srs.Day, "6 months", false},
		{"correct from stage 5", 5, true, domain.OutcomeCorrect, 6, 365 * srs.Day, "1 year", true},
		{"incorrect resets", 4, true, domain.OutcomeIncorrect, 0, 10 * time.Minute, "", false},
		{"skipped keeps count", 3, true, domain.OutcomeSkipped, 3, srs.Day, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, review.Config{})
			w := f.addWord(t, "casa", 1, true)
			if tc.attempted {
				f.setState(w.ID, tc.startCount, testNow.Add(-time.Hour))
			}

			res, err := f.svc.RecordAttempt(context.Background(), f.userID, w.ID, tc.outcome)
			require.NoError(t, err)

			wantNext := testNow.Add(tc.wantDelay)
			assert.Equal(t, tc.wantCount, res.State.RepetitionCount)
			require.NotNil(t, res.State.NextReviewAt)
			assert.True(t, res.State.NextReviewAt.Equal(wantNext))
			assert.Equal(t, tc.outcome, res.State.LastResult)
			assert.Equal(t, tc.wantLabel, res.IntervalLabel)
			assert.Equal(t, tc.wantMastered, res.BecameMastered)
			assert.Equal(t, tc.wantMastered, res.NewlyMastered)

			assert.Equal(t, tc.startCount, res.Attempt.PreviousCount)
			assert.Equal(t, tc.wantCount, res.Attempt.NewCount)
			assert.True(t, res.Attempt.OccurredAt.Equal(testNow))

			stored := f.state(t, w.ID)
			assert.Equal(t, tc.wantCount, stored.RepetitionCount)
			assert.True(t, stored.NextReviewAt.Equal(wantNext))
			require.Len(t, f.db.Attempts(), 1)
		})
	}
}

func TestRecordAttempt_MasteryRecordedOnce(t *testing.T) {
	f := newFixture(t, review.Config{})
	ctx := context.Background()
	w := f.addWord(t, "perro", 2, true)
	f.setState(w.ID, 5, testNow.Add(-time.Minute))

	first, err := f.svc.RecordAttempt(ctx, f.userID, w.ID, domain.OutcomeCorrect)
	require.NoError(t, err)
	assert.True(t, first.BecameMastered)
	assert.True(t, first.NewlyMastered)

	second, err := f.svc.RecordAttempt(ctx, f.userID, w.ID, domain.OutcomeCorrect)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxRepetitionCount, second.State.RepetitionCount)
	assert.True(t, second.BecameMastered)
	assert.False(t, second.NewlyMastered)

	count, err := f.stores.Mastery.Count(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, f.events.ofType(events.TypeWordMastered), 1)
	assert.Len(t, f.events.ofType(events.TypeAttemptRecorded), 2)
}

func TestRecordAttempt_ConcurrentMastery(t *testing.T) {
	f := newFixture(t, review.Config{})
	w := f.addWord(t, "gato", 1, true)
	f.setState(w.ID, 5, testNow.Add(-time.Minute))

	const workers = 8
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		newly int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.RecordAttempt(context.Background(), f.userID, w.ID, domain.OutcomeCorrect)
			if !assert.NoError(t, err) {
				return
			}
			if res.NewlyMastered {
				mu.Lock()
				newly++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, newly)
	assert.Len(t, f.db.Attempts(), workers)
	assert.Equal(t, int64(1+workers), f.state(t, w.ID).Version)
}

func TestRecordAttempt_InvalidInput(t *testing.T) {
	f := newFixture(t, review.Config{})
	w := f.addWord(t, "sol", 1, true)

	_, err := f.svc.RecordAttempt(context.Background(), f.userID, w.ID, domain.Outcome("maybe"))
	require.Error(t, err)
	assert.ErrorIs(t, err, review.ErrInvalidOutcome)

	var svcErr *review.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "record_attempt", svcErr.Operation)

	_, err = f.svc.RecordAttempt(context.Background(), uuid.Nil, w.ID, domain.OutcomeCorrect)
	assert.ErrorIs(t, err, review.ErrInvalidID)

	assert.Zero(t, f.tx.TxCount())
	assert.Empty(t, f.db.Attempts())
}

func TestRecordAttempt_WordNotReviewable(t *testing.T) {
	f := newFixture(t, review.Config{})
	pending := f.addWord(t, "luna", 1, false)

	_, err := f.svc.RecordAttempt(context.Background(), f.userID, uuid.New(), domain.OutcomeCorrect)
	assert.ErrorIs(t, err, review.ErrWordNotFound)

	_, err = f.svc.RecordAttempt(context.Background(), f.userID, pending.ID, domain.OutcomeCorrect)
	assert.ErrorIs(t, err, review.ErrWordNotApproved)

	assert.Equal(t, 2, f.tx.TxCount(), "not-found errors are not retried")
	assert.Empty(t, f.db.Attempts())
}

func TestRecordAttempt_RetriesOnConflict(t *testing.T) {
	f := newFixture(t, review.Config{ConflictRetryAttempts: 3, RetryDelay: time.Millisecond})
	w := f.addWord(t, "agua", 1, true)
	f.setState(w.ID, 1, testNow.Add(-time.Hour))

	inner := &mocks.MockReviewStateStore{DB: f.db}
	failures := 1
	f.stores.ReviewStates.(*mocks.MockReviewStateStore).UpdateFn = func(ctx context.Context, s *domain.ReviewState) error {
		if failures > 0 {
			failures--
			return store.ErrConflict
		}
		return inner.Update(ctx, s)
	}

	res, err := f.svc.RecordAttempt(context.Background(), f.userID, w.ID, domain.OutcomeCorrect)
	require.NoError(t, err)
	assert.Equal(t, 2, res.State.RepetitionCount)
	assert.Equal(t, 2, f.tx.TxCount())
	assert.Equal(t, 1, f.tx.RollbackCount())
	assert.Len(t, f.db.Attempts(), 1, "the rolled back attempt must not be logged")
	logger.AssertLogContains(t, f.logBuf, "retrying attempt after concurrent update")
}

func TestRecordAttempt_ConflictRetriesExhausted(t *testing.T) {
	f := newFixture(t, review.Config{ConflictRetryAttempts: 2, RetryDelay: time.Millisecond})
	w := f.addWord(t, "fuego", 1, true)
	f.setState(w.ID, 2, testNow.Add(-time.Hour))

	f.stores.ReviewStates.(*mocks.MockReviewStateStore).UpdateFn = func(context.Context, *domain.ReviewState) error {
		return store.ErrConflict
	}

	_, err := f.svc.RecordAttempt(context.Background(), f.userID, w.ID, domain.OutcomeCorrect)
	require.Error(t, err)
	assert.ErrorIs(t, err, review.ErrConcurrentUpdate)
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.Equal(t, 2, f.tx.TxCount())

	assert.Equal(t, 2, f.state(t, w.ID).RepetitionCount)
	assert.Empty(t, f.db.Attempts())
	assert.Empty(t, f.events.ofType(events.TypeAttemptRecorded))
}

func TestRecordAttempt_RollsBackOnStoreFailure(t *testing.T) {
	f := newFixture(t, review.Config{})
	w := f.addWord(t, "tierra", 1, true)

	f.stores.Attempts.(*mocks.MockAttemptStore).Err = errors.New("disk full")

	_, err := f.svc.RecordAttempt(context.Background(), f.userID, w.ID, domain.OutcomeCorrect)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	_, err = f.stores.ReviewStates.Get(context.Background(), f.userID, w.ID)
	assert.ErrorIs(t, err, store.ErrReviewStateNotFound)
	assert.Equal(t, 1, f.tx.TxCount(), "store failures are not retried")
	assert.Empty(t, f.events.ofType(events.TypeAttemptRecorded))
}

func TestRecordAttempt_EmitsAttemptEvent(t *testing.T) {
	f := newFixture(t, review.Config{})
	w := f.addWord(t, "aire", 1, true)

	res, err := f.svc.RecordAttempt(context.Background(), f.userID, w.ID, domain.OutcomeIncorrect)
	require.NoError(t, err)

	recorded := f.events.ofType(events.TypeAttemptRecorded)
	require.Len(t, recorded, 1)

	var payload events.AttemptRecordedPayload
	require.NoError(t, recorded[0].UnmarshalPayload(&payload))
	assert.Equal(t, res.Attempt.ID, payload.AttemptID)
	assert.Equal(t, w.ID, payload.WordID)
	assert.Equal(t, "incorrect", payload.Outcome)
	assert.Equal(t, 0, payload.NewCount)
	assert.Empty(t, f.events.ofType(events.TypeWordMastered))
}

func TestDueReviews(t *testing.T) {
	f := newFixture(t, review.Config{MaxDueWords: 2})
	ctx := context.Background()

	a := f.addWord(t, "uno", 1, true)
	b := f.addWord(t, "dos", 1, true)
	c := f.addWord(t, "tres", 1, true)
	future := f.addWord(t, "cuatro", 1, true)

	f.setState(a.ID, 1, testNow.Add(-time.Hour))
	f.setState(b.ID, 2, testNow.Add(-3*time.Hour))
	f.setState(c.ID, 1, testNow)
	f.setState(future.ID, 3, testNow.Add(time.Minute))

	due, err := f.svc.DueReviews(ctx, f.userID, 10)
	require.NoError(t, err)
	require.Len(t, due, 2, "limit is capped by MaxDueWords")
	assert.Equal(t, b.ID, due[0].Word.ID)
	assert.Equal(t, a.ID, due[1].Word.ID)

	other, err := f.svc.DueReviews(ctx, uuid.New(), 0)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestHasAttemptedAndReviewState(t *testing.T) {
	f := newFixture(t, review.Config{})
	ctx := context.Background()
	seen := f.addWord(t, "rojo", 1, true)
	unseen := f.addWord(t, "azul", 1, true)
	f.setState(seen.ID, 2, testNow.Add(time.Hour))

	ok, err := f.svc.HasAttempted(ctx, f.userID, seen.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.HasAttempted(ctx, f.userID, unseen.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	state, err := f.svc.ReviewState(ctx, f.userID, unseen.ID)
	require.NoError(t, err)
	assert.Zero(t, state.RepetitionCount)
	assert.Nil(t, state.NextReviewAt)
	assert.Zero(t, state.Version)

	state, err = f.svc.ReviewState(ctx, f.userID, seen.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, state.RepetitionCount)

	_, err = f.svc.ReviewState(ctx, f.userID, uuid.New())
	assert.ErrorIs(t, err, review.ErrWordNotFound)
}

func TestBuildSession(t *testing.T) {
	f := newFixture(t, review.Config{})
	ctx := context.Background()

	due := f.addWord(t, "verde", 3, true)
	f.setState(due.ID, 1, testNow.Add(-time.Hour))
	notDue := f.addWord(t, "blanco", 1, true)
	f.setState(notDue.ID, 1, testNow.Add(time.Hour))

	hard := f.addWord(t, "ferrocarril", 5, true)
	easy := f.addWord(t, "si", 1, true)
	medium := f.addWord(t, "ventana", 3, true)
	f.addWord(t, "pendiente", 1, false)

	_, err := f.svc.UpdateSettings(ctx, f.userID, 2)
	require.NoError(t, err)

	session, err := f.svc.BuildSession(ctx, f.userID)
	require.NoError(t, err)

	require.Len(t, session.Due, 1)
	assert.Equal(t, due.ID, session.Due[0].Word.ID)

	require.Len(t, session.New, 2)
	assert.Equal(t, easy.ID, session.New[0].ID)
	assert.Equal(t, medium.ID, session.New[1].ID)
	assert.NotContains(t, []uuid.UUID{session.New[0].ID, session.New[1].ID}, hard.ID)
	assert.Equal(t, 2, session.DailyNewWords)
	assert.True(t, session.GeneratedAt.Equal(testNow))
}

func TestProgress(t *testing.T) {
	f := newFixture(t, review.Config{})
	ctx := context.Background()

	a := f.addWord(t, "pan", 1, true)
	b := f.addWord(t, "vino", 1, true)
	f.addWord(t, "queso", 1, true)
	f.addWord(t, "borrador", 1, false)
	f.setState(b.ID, 5, testNow.Add(-time.Hour))

	for _, o := range []domain.Outcome{domain.OutcomeCorrect, domain.OutcomeIncorrect, domain.OutcomeCorrect} {
		_, err := f.svc.RecordAttempt(ctx, f.userID, a.ID, o)
		require.NoError(t, err)
	}
	_, err := f.svc.RecordAttempt(ctx, f.userID, b.ID, domain.OutcomeCorrect)
	require.NoError(t, err)

	p, err := f.svc.Progress(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 3, p.ApprovedWords)
	assert.Equal(t, 1, p.MasteredWords)
	assert.Equal(t, 4, p.TodayAttempts)
	assert.Equal(t, 3, p.TodayCorrect)
	assert.Equal(t, 75, p.AccuracyPercent)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), p.DayStart)

	empty, err := f.svc.Progress(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, empty.AccuracyPercent)
}

func TestSettings(t *testing.T) {
	f := newFixture(t, review.Config{DefaultDailyNewWords: 7})
	ctx := context.Background()

	s, err := f.svc.Settings(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 7, s.DailyNewWords)

	for _, bad := range []int{0, -1, 101} {
		_, err := f.svc.UpdateSettings(ctx, f.userID, bad)
		assert.ErrorIs(t, err, review.ErrInvalidSettings, "value %d", bad)
	}

	updated, err := f.svc.UpdateSettings(ctx, f.userID, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, updated.DailyNewWords)

	s, err = f.svc.Settings(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 25, s.DailyNewWords)
}

func TestHistory(t *testing.T) {
	f := newFixture(t, review.Config{})
	ctx := context.Background()
	wordID := uuid.New()

	logAttempt := func(userID uuid.UUID, at time.Time, outcome domain.Outcome) {
		t.Helper()
		require.NoError(t, f.stores.Attempts.Append(ctx, &domain.Attempt{
			ID:            uuid.New(),
			UserID:        userID,
			WordID:        wordID,
			Outcome:       outcome,
			PreviousCount: 1,
			NewCount:      0,
			NextReviewAt:  at.Add(10 * time.Minute),
			OccurredAt:    at,
		}))
	}

	logAttempt(f.userID, testNow.Add(-time.Hour), domain.OutcomeCorrect)
	logAttempt(f.userID, testNow.Add(-2*time.Hour), domain.OutcomeIncorrect)
	logAttempt(f.userID, testNow.AddDate(0, 0, -2), domain.OutcomeCorrect)
	logAttempt(f.userID, testNow.AddDate(0, 0, -20), domain.OutcomeCorrect)
	logAttempt(uuid.New(), testNow, domain.OutcomeCorrect)

	h, err := f.svc.History(ctx, f.userID, 3)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), h.From)
	assert.Equal(t, []review.DailyActivity{
		{Day: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), Attempts: 1, Correct: 1, AccuracyPercent: 100},
		{Day: time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)},
		{Day: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), Attempts: 2, Correct: 1, AccuracyPercent: 50},
	}, h.Days)

	t.Run("default window", func(t *testing.T) {
		h, err := f.svc.History(ctx, f.userID, 0)
		require.NoError(t, err)
		assert.Len(t, h.Days, review.DefaultHistoryDays)
	})

	t.Run("window capped", func(t *testing.T) {
		h, err := f.svc.History(ctx, f.userID, 1000)
		require.NoError(t, err)
		require.Len(t, h.Days, review.MaxHistoryDays)
		assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), h.Days[len(h.Days)-1].Day)

		total := 0
		for _, d := range h.Days {
			total += d.Attempts
		}
		assert.Equal(t, 4, total)
	})

	t.Run("store failure", func(t *testing.T) {
		f.stores.Attempts.(*mocks.MockAttemptStore).Err = errors.New("disk full")
		defer func() { f.stores.Attempts.(*mocks.MockAttemptStore).Err = nil }()

		_, err := f.svc.History(ctx, f.userID, 7)
		var svcErr *review.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "history", svcErr.Operation)
	})
}
