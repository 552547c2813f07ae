// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package, together with the
// embedded goose migrations that create the schema they expect.
//
// Every store accepts a store.DBTX so the same code runs against a pool or a
// transaction; WithTx rebinds a store to a transaction.
package postgres
