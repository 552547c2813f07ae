package mocks

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/store"
)

// MockAttemptStore implements store.AttemptStore on a MemoryDB.
type MockAttemptStore struct {
	DB  *MemoryDB
	Err error
}

var _ store.AttemptStore = (*MockAttemptStore)(nil)

// Append implements store.AttemptStore
func (m *MockAttemptStore) Append(ctx context.Context, attempt *domain.Attempt) error {
	if m.Err != nil {
		return m.Err
	}
	if err := attempt.Validate(); err != nil {
		return err
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()
	m.DB.attempts = append(m.DB.attempts, *attempt)
	return nil
}

// CountSince implements store.AttemptStore
func (m *MockAttemptStore) CountSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (store.AttemptCounts, error) {
	if m.Err != nil {
		return store.AttemptCounts{}, m.Err
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	var counts store.AttemptCounts
	for _, a := range m.DB.attempts {
		if a.UserID != userID || a.OccurredAt.Before(since) {
			continue
		}
		counts.Total++
		if a.Outcome == domain.OutcomeCorrect {
			counts.Correct++
		}
	}
	return counts, nil
}

// CountByDay implements store.AttemptStore
func (m *MockAttemptStore) CountByDay(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]store.DailyAttemptCounts, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	byDay := make(map[time.Time]*store.DailyAttemptCounts)
	for _, a := range m.DB.attempts {
		if a.UserID != userID || a.OccurredAt.Before(since) {
			continue
		}
		at := a.OccurredAt.UTC()
		day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
		d, ok := byDay[day]
		if !ok {
			d = &store.DailyAttemptCounts{Day: day}
			byDay[day] = d
		}
		d.Total++
		if a.Outcome == domain.OutcomeCorrect {
			d.Correct++
		}
	}

	days := make([]store.DailyAttemptCounts, 0, len(byDay))
	for _, d := range byDay {
		days = append(days, *d)
	}
	slices.SortFunc(days, func(a, b store.DailyAttemptCounts) int {
		return a.Day.Compare(b.Day)
	})
	return days, nil
}

// WithTx implements store.AttemptStore; the mock ignores the transaction.
func (m *MockAttemptStore) WithTx(tx *sql.Tx) store.AttemptStore {
	return m
}
