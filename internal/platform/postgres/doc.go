// Package postgres provides PostgreSQL implementations of the store
// interfaces. Each store accepts a store.DBTX so it can run against
// either a connection pool or an open transaction.
package postgres
