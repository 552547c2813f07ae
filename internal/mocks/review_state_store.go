package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/domain/srs"
	"github.com/phrazzld/lexis/internal/store"
)

// MockReviewStateStore implements store.ReviewStateStore on a MemoryDB with
// the same versioning rules as the PostgreSQL store.
type MockReviewStateStore struct {
	DB *MemoryDB

	// Function fields for customizable behavior. Inject conflicts by
	// returning store.ErrConflict from UpdateFn or CreateFn.
	CreateFn func(ctx context.Context, state *domain.ReviewState) error
	UpdateFn func(ctx context.Context, state *domain.ReviewState) error

	Err error
}

var _ store.ReviewStateStore = (*MockReviewStateStore)(nil)

// Get implements store.ReviewStateStore
func (m *MockReviewStateStore) Get(ctx context.Context, userID, wordID uuid.UUID) (*domain.ReviewState, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	s, ok := m.DB.states[pairKey{userID, wordID}]
	if !ok {
		return nil, store.ErrReviewStateNotFound
	}
	c := cloneState(s)
	return &c, nil
}

// GetForUpdate implements store.ReviewStateStore. The mock takes no lock.
func (m *MockReviewStateStore) GetForUpdate(
	ctx context.Context,
	userID, wordID uuid.UUID,
) (*domain.ReviewState, error) {
	return m.Get(ctx, userID, wordID)
}

// Create implements store.ReviewStateStore
func (m *MockReviewStateStore) Create(ctx context.Context, state *domain.ReviewState) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, state)
	}
	if m.Err != nil {
		return m.Err
	}
	if err := state.Validate(); err != nil {
		return err
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	key := pairKey{state.UserID, state.WordID}
	if _, exists := m.DB.states[key]; exists {
		return store.ErrConflict
	}

	state.Version = 1
	m.DB.states[key] = cloneState(*state)
	return nil
}

// Update implements store.ReviewStateStore
func (m *MockReviewStateStore) Update(ctx context.Context, state *domain.ReviewState) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, state)
	}
	if m.Err != nil {
		return m.Err
	}
	if err := state.Validate(); err != nil {
		return err
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	key := pairKey{state.UserID, state.WordID}
	current, ok := m.DB.states[key]
	if !ok {
		return store.ErrReviewStateNotFound
	}
	if current.Version != state.Version {
		return store.ErrConflict
	}

	state.Version++
	m.DB.states[key] = cloneState(*state)
	return nil
}

// ListDue implements store.ReviewStateStore
func (m *MockReviewStateStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.ReviewState, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit <= 0 {
		return []*domain.ReviewState{}, nil
	}

	m.DB.mu.Lock()
	mine := []*domain.ReviewState{}
	for key, s := range m.DB.states {
		if key.userID == userID {
			c := cloneState(s)
			mine = append(mine, &c)
		}
	}
	m.DB.mu.Unlock()

	due := srs.DueSet(mine, now)
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// WithTx implements store.ReviewStateStore; the mock ignores the transaction.
func (m *MockReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return m
}
