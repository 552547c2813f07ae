// Package mocks provides in-memory implementations of the store interfaces
// for tests.
//
// All stores built from one MemoryDB share its data, so a test can arrange
// words and review states through one store and observe them through another.
// MockTransactor runs units of work against those stores and rolls the
// MemoryDB back when the work fails, which mirrors the transactional
// guarantees of the PostgreSQL implementation.
//
//	db := mocks.NewMemoryDB()
//	tx := mocks.NewMockTransactor(db, nil)
//	svc := review.NewService(tx, nil, review.Config{}, logger)
//
// Individual operations can be overridden through the Fn fields, for example
// MockReviewStateStore.UpdateFn to inject store.ErrConflict.
package mocks
