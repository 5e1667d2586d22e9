package config

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgxHealthCheckPeriod = time.Minute
	pgxConnectTimeout    = 5 * time.Second
)

// PostgresPGXPoolConfig parses dsn and applies pool.
func PostgresPGXPoolConfig(dsn string, pool PoolSettings) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(pool.MaxConns) //nolint:gosec
	poolConfig.MinConns = int32(pool.MinConns) //nolint:gosec
	poolConfig.MaxConnLifetime = pool.MaxConnLifetime
	poolConfig.MaxConnIdleTime = pool.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = pgxHealthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = pgxConnectTimeout

	return poolConfig, nil
}
