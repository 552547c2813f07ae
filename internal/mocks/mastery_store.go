package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/store"
)

// MockMasteryStore implements store.MasteryStore on a MemoryDB.
type MockMasteryStore struct {
	DB  *MemoryDB
	Err error
}

var _ store.MasteryStore = (*MockMasteryStore)(nil)

// MarkMastered implements store.MasteryStore
func (m *MockMasteryStore) MarkMastered(ctx context.Context, record *domain.MasteryRecord) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	if err := record.Validate(); err != nil {
		return false, err
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	key := pairKey{record.UserID, record.WordID}
	if _, exists := m.DB.mastery[key]; exists {
		return false, nil
	}
	m.DB.mastery[key] = *record
	return true, nil
}

// Exists implements store.MasteryStore
func (m *MockMasteryStore) Exists(ctx context.Context, userID, wordID uuid.UUID) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()
	_, ok := m.DB.mastery[pairKey{userID, wordID}]
	return ok, nil
}

// Count implements store.MasteryStore
func (m *MockMasteryStore) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	n := 0
	for key := range m.DB.mastery {
		if key.userID == userID {
			n++
		}
	}
	return n, nil
}

// WithTx implements store.MasteryStore; the mock ignores the transaction.
func (m *MockMasteryStore) WithTx(tx *sql.Tx) store.MasteryStore {
	return m
}
