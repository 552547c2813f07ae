package mocks

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/store"
)

// MockWordStore implements store.WordStore on a MemoryDB.
type MockWordStore struct {
	DB *MemoryDB

	// Function fields for customizable behavior
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Word, error)

	Err error
}

var _ store.WordStore = (*MockWordStore)(nil)

// Create implements store.WordStore
func (m *MockWordStore) Create(ctx context.Context, word *domain.Word) error {
	if m.Err != nil {
		return m.Err
	}
	if err := word.Validate(); err != nil {
		return err
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	if _, exists := m.DB.words[word.ID]; exists {
		return store.ErrDuplicate
	}
	m.DB.words[word.ID] = *word
	return nil
}

// GetByID implements store.WordStore
func (m *MockWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	w, ok := m.DB.words[id]
	if !ok {
		return nil, store.ErrWordNotFound
	}
	return &w, nil
}

// ListByIDs implements store.WordStore
func (m *MockWordStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Word, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	out := make([]*domain.Word, 0, len(ids))
	for _, id := range ids {
		if w, ok := m.DB.words[id]; ok {
			out = append(out, &w)
		}
	}
	return out, nil
}

// ListUnattempted implements store.WordStore
func (m *MockWordStore) ListUnattempted(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Word, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit <= 0 {
		return []*domain.Word{}, nil
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	out := []*domain.Word{}
	for id, w := range m.DB.words {
		if !w.Approved {
			continue
		}
		if _, attempted := m.DB.states[pairKey{userID, id}]; attempted {
			continue
		}
		out = append(out, &w)
	}

	slices.SortFunc(out, func(a, b *domain.Word) int {
		return cmp.Or(
			cmp.Compare(a.DifficultyLevel, b.DifficultyLevel),
			a.CreatedAt.Compare(b.CreatedAt),
			strings.Compare(a.ID.String(), b.ID.String()),
		)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountApproved implements store.WordStore
func (m *MockWordStore) CountApproved(ctx context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	n := 0
	for _, w := range m.DB.words {
		if w.Approved {
			n++
		}
	}
	return n, nil
}

// WithTx implements store.WordStore; the mock ignores the transaction.
func (m *MockWordStore) WithTx(tx *sql.Tx) store.WordStore {
	return m
}
