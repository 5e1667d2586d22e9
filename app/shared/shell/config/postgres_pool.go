package config

import (
	"fmt"
	"strconv"
	"time"
)

const (
	envDBMaxConns = "SHOP_DB_MAX_CONNS"

	defaultDBMaxConns = 16
)

// PoolSettings bounds the connections kept to PostgreSQL. The same settings apply to every adapter.
type PoolSettings struct {
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DefaultPoolSettings suits a single service instance.
func DefaultPoolSettings() PoolSettings {
	return PoolSettings{
		MaxConns:        defaultDBMaxConns,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 5 * time.Minute,
	}
}

// PoolSettingsFromEnv starts from DefaultPoolSettings and applies SHOP_DB_MAX_CONNS.
func PoolSettingsFromEnv() (PoolSettings, error) {
	settings := DefaultPoolSettings()

	raw := envOrDefault(envDBMaxConns, "")
	if raw == "" {
		return settings, nil
	}

	maxConns, err := strconv.Atoi(raw)
	if err != nil || maxConns < 1 {
		return PoolSettings{}, fmt.Errorf("invalid %s: %q", envDBMaxConns, raw)
	}

	settings.MaxConns = maxConns
	settings.MinConns = min(settings.MinConns, maxConns)

	return settings, nil
}
