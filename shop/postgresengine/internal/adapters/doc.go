// Package adapters provide database adapter implementations for the PostgreSQL shop engine.
//
// pgx.Pool, sql.DB and sqlx.DB are supported behind the common DBAdapter interface.
// Every unit of work runs inside a DBTx started with read-committed isolation.
package adapters
