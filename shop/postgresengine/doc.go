// Package postgresengine implements the shop storage ports on PostgreSQL.
//
// All statements are built with goqu and run through one of three adapters (pgx.Pool, sql.DB, sqlx.DB).
// A unit of work is a read-committed transaction. Stock changes either take the item's row lock with a
// conditional UPDATE (the default) or use a versioned compare-and-swap with bounded retries,
// see WithStockStrategy.
//
// Migrate creates the tables the engine needs.
package postgresengine
