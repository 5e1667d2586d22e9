package config

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

// OpenPostgresSQLDB opens a lib/pq backed *sql.DB limited by pool and checks that it is reachable.
func OpenPostgresSQLDB(ctx context.Context, dsn string, pool PoolSettings) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	applyPoolSettings(db, pool)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	return db, nil
}

// applyPoolSettings works for *sql.DB and *sqlx.DB alike.
func applyPoolSettings(db interface {
	SetMaxOpenConns(n int)
	SetMaxIdleConns(n int)
	SetConnMaxLifetime(d time.Duration)
	SetConnMaxIdleTime(d time.Duration)
}, pool PoolSettings,
) {
	db.SetMaxOpenConns(pool.MaxConns)
	db.SetMaxIdleConns(pool.MinConns)
	db.SetConnMaxLifetime(pool.MaxConnLifetime)
	db.SetConnMaxIdleTime(pool.MaxConnIdleTime)
}
