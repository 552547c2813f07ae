package mocks

import (
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/store"
)

type pairKey struct {
	userID uuid.UUID
	wordID uuid.UUID
}

// MemoryDB is the shared backing data for the in-memory stores. All stores
// built on the same MemoryDB see each other's writes, and a MockTransactor
// can roll them back together.
type MemoryDB struct {
	mu       sync.Mutex
	words    map[uuid.UUID]domain.Word
	states   map[pairKey]domain.ReviewState
	attempts []domain.Attempt
	mastery  map[pairKey]domain.MasteryRecord
	settings map[uuid.UUID]domain.UserSettings
}

// NewMemoryDB creates an empty MemoryDB.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		words:    make(map[uuid.UUID]domain.Word),
		states:   make(map[pairKey]domain.ReviewState),
		mastery:  make(map[pairKey]domain.MasteryRecord),
		settings: make(map[uuid.UUID]domain.UserSettings),
	}
}

type memorySnapshot struct {
	words    map[uuid.UUID]domain.Word
	states   map[pairKey]domain.ReviewState
	attempts []domain.Attempt
	mastery  map[pairKey]domain.MasteryRecord
	settings map[uuid.UUID]domain.UserSettings
}

func (m *MemoryDB) snapshot() memorySnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := memorySnapshot{
		words:    make(map[uuid.UUID]domain.Word, len(m.words)),
		states:   make(map[pairKey]domain.ReviewState, len(m.states)),
		attempts: append([]domain.Attempt(nil), m.attempts...),
		mastery:  make(map[pairKey]domain.MasteryRecord, len(m.mastery)),
		settings: make(map[uuid.UUID]domain.UserSettings, len(m.settings)),
	}
	for k, v := range m.words {
		snap.words[k] = v
	}
	for k, v := range m.states {
		snap.states[k] = cloneState(v)
	}
	for k, v := range m.mastery {
		snap.mastery[k] = v
	}
	for k, v := range m.settings {
		snap.settings[k] = v
	}
	return snap
}

func (m *MemoryDB) restore(snap memorySnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.words = snap.words
	m.states = snap.states
	m.attempts = snap.attempts
	m.mastery = snap.mastery
	m.settings = snap.settings
}

// Attempts returns a copy of every attempt appended so far, in order.
func (m *MemoryDB) Attempts() []domain.Attempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Attempt(nil), m.attempts...)
}

// SetState stores state as-is, bypassing version checks. Tests use it to
// arrange review states directly.
func (m *MemoryDB) SetState(state *domain.ReviewState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := cloneState(*state)
	if s.Version == 0 {
		s.Version = 1
	}
	m.states[pairKey{state.UserID, state.WordID}] = s
}

// NewStores returns in-memory stores backed by m.
func (m *MemoryDB) NewStores() store.Stores {
	return store.Stores{
		Words:        &MockWordStore{DB: m},
		ReviewStates: &MockReviewStateStore{DB: m},
		Attempts:     &MockAttemptStore{DB: m},
		Mastery:      &MockMasteryStore{DB: m},
		Settings:     &MockSettingsStore{DB: m},
	}
}

func cloneState(s domain.ReviewState) domain.ReviewState {
	if s.NextReviewAt != nil {
		t := *s.NextReviewAt
		s.NextReviewAt = &t
	}
	return s
}
