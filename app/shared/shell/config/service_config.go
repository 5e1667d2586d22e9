package config

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	envHTTPAddr      = "SHOP_HTTP_ADDR"
	envDBAdapter     = "SHOP_DB_ADAPTER"
	envKafkaBrokers  = "SHOP_KAFKA_BROKERS"
	envKafkaTopic    = "SHOP_KAFKA_TOPIC"
	envObservability = "SHOP_OBSERVABILITY"

	DBAdapterPGXPool = "pgx.pool"
	DBAdapterSQLDB   = "sql.db"
	DBAdapterSQLXDB  = "sqlx.db"

	defaultHTTPAddr   = ":8080"
	defaultKafkaTopic = "shop.order-events"
)

// ServiceConfig is everything cmd/shopd reads from the environment.
type ServiceConfig struct {
	HTTPAddr      string
	PostgresDSN   string
	DBAdapter     string
	Pool          PoolSettings
	KafkaBrokers  []string
	KafkaTopic    string
	Observability bool
}

// ServiceConfigFromEnv reads and validates the service configuration.
func ServiceConfigFromEnv() (ServiceConfig, error) {
	cfg := ServiceConfig{
		HTTPAddr:    envOrDefault(envHTTPAddr, defaultHTTPAddr),
		PostgresDSN: PostgresDSN(),
		DBAdapter:   strings.ToLower(envOrDefault(envDBAdapter, DBAdapterPGXPool)),
		KafkaTopic:  envOrDefault(envKafkaTopic, defaultKafkaTopic),
	}

	switch cfg.DBAdapter {
	case DBAdapterPGXPool, DBAdapterSQLDB, DBAdapterSQLXDB:
	default:
		return ServiceConfig{}, fmt.Errorf("unsupported %s: %s", envDBAdapter, cfg.DBAdapter)
	}

	pool, err := PoolSettingsFromEnv()
	if err != nil {
		return ServiceConfig{}, err
	}
	cfg.Pool = pool

	if brokers := envOrDefault(envKafkaBrokers, ""); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	if raw := envOrDefault(envObservability, "false"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return ServiceConfig{}, fmt.Errorf("invalid %s: %w", envObservability, err)
		}

		cfg.Observability = enabled
	}

	return cfg, nil
}
