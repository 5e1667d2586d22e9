// Package memoryengine provides an in-process implementation of the shop storage ports.
//
// Units of work stage their writes and apply them on Commit. Items, carts and orders are guarded by
// per-key locks that a unit of work holds from first write access until it commits or rolls back,
// which gives the same linearization at the stock ledger as row locks do in PostgreSQL.
// Lock waits honor context cancellation.
//
// The engine is meant for tests, demos and single-process tools; nothing is persisted.
package memoryengine
