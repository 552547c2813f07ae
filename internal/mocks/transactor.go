package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/lexis/internal/store"
)

// MockTransactor implements store.Transactor over in-memory stores.
//
// Transactions run one at a time. When fn fails, every write made through
// the MemoryDB during the transaction is rolled back.
type MockTransactor struct {
	DB     *MemoryDB
	stores store.Stores

	// WithinTxFn replaces the default behavior when set.
	WithinTxFn func(ctx context.Context, fn func(ctx context.Context, s store.Stores) error) error

	txMu sync.Mutex

	calls struct {
		mu        sync.Mutex
		count     int
		rollbacks int
	}
}

var _ store.Transactor = (*MockTransactor)(nil)

// NewMockTransactor creates a transactor over db using stores. Pass nil
// stores to use db.NewStores().
func NewMockTransactor(db *MemoryDB, stores *store.Stores) *MockTransactor {
	t := &MockTransactor{DB: db}
	if stores != nil {
		t.stores = *stores
	} else {
		t.stores = db.NewStores()
	}
	return t
}

// Stores implements store.Transactor
func (t *MockTransactor) Stores() store.Stores {
	return t.stores
}

// WithinTx implements store.Transactor
func (t *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, s store.Stores) error) error {
	t.calls.mu.Lock()
	t.calls.count++
	t.calls.mu.Unlock()

	if t.WithinTxFn != nil {
		return t.WithinTxFn(ctx, fn)
	}

	t.txMu.Lock()
	defer t.txMu.Unlock()

	snap := t.DB.snapshot()
	if err := fn(ctx, t.stores); err != nil {
		t.DB.restore(snap)
		t.calls.mu.Lock()
		t.calls.rollbacks++
		t.calls.mu.Unlock()
		return err
	}
	return nil
}

// TxCount returns how many transactions were started.
func (t *MockTransactor) TxCount() int {
	t.calls.mu.Lock()
	defer t.calls.mu.Unlock()
	return t.calls.count
}

// RollbackCount returns how many transactions were rolled back.
func (t *MockTransactor) RollbackCount() int {
	t.calls.mu.Lock()
	defer t.calls.mu.Unlock()
	return t.calls.rollbacks
}
