package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/store"
)

// MockSettingsStore implements store.SettingsStore on a MemoryDB.
type MockSettingsStore struct {
	DB  *MemoryDB
	Err error
}

var _ store.SettingsStore = (*MockSettingsStore)(nil)

// Get implements store.SettingsStore
func (m *MockSettingsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()

	s, ok := m.DB.settings[userID]
	if !ok {
		return nil, store.ErrSettingsNotFound
	}
	return &s, nil
}

// Upsert implements store.SettingsStore
func (m *MockSettingsStore) Upsert(ctx context.Context, settings *domain.UserSettings) error {
	if m.Err != nil {
		return m.Err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	m.DB.mu.Lock()
	defer m.DB.mu.Unlock()
	m.DB.settings[settings.UserID] = *settings
	return nil
}

// WithTx implements store.SettingsStore; the mock ignores the transaction.
func (m *MockSettingsStore) WithTx(tx *sql.Tx) store.SettingsStore {
	return m
}
