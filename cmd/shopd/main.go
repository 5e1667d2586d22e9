// Command shopd serves the cart, checkout and order API on top of PostgreSQL.
//
// Configuration is read from the environment, see config.ServiceConfigFromEnv. When SHOP_KAFKA_BROKERS is set,
// order lifecycle notifications are published to Kafka; when SHOP_OBSERVABILITY is true, metrics and traces
// are exported via OTLP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/checkout-engine-go/app/httpapi"
	"github.com/AntonStoeckl/checkout-engine-go/app/shared/shell"
	"github.com/AntonStoeckl/checkout-engine-go/app/shared/shell/config"
	"github.com/AntonStoeckl/checkout-engine-go/shop/kafkapublisher"
	"github.com/AntonStoeckl/checkout-engine-go/shop/oteladapters"
	"github.com/AntonStoeckl/checkout-engine-go/shop/postgresengine"
	"github.com/AntonStoeckl/checkout-engine-go/shop/zapadapter"
)

const (
	serviceName     = "shopd"
	serviceVersion  = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("shopd: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.ServiceConfigFromEnv()
	if err != nil {
		return err
	}

	logger, err := zapadapter.NewProduction()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	obs := httpapi.Observability{Logger: logger, ContextualLogger: logger}
	engineOptions := []postgresengine.Option{
		postgresengine.WithLogger(logger),
		postgresengine.WithContextualLogger(logger),
	}

	if cfg.Observability {
		providers, providerErr := config.NewObservabilityProviders(ctx, serviceName, serviceVersion)
		if providerErr != nil {
			return fmt.Errorf("creating observability providers: %w", providerErr)
		}
		defer func() { _ = providers.Shutdown() }()

		obs.Metrics = oteladapters.NewMetricsCollector(otel.Meter(serviceName))
		obs.Tracing = oteladapters.NewTracingCollector(otel.Tracer(serviceName))
		engineOptions = append(engineOptions,
			postgresengine.WithMetrics(obs.Metrics),
			postgresengine.WithTracing(obs.Tracing),
		)
	}

	engine, closeDB, err := openEngine(ctx, cfg, engineOptions...)
	if err != nil {
		return err
	}
	defer closeDB()

	if err = engine.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	handlerOptions := []shell.HandlerOption{shell.WithHandlerLogger(logger)}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafkapublisher.New(
			kafkapublisher.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic),
			kafkapublisher.WithLogger(logger),
		)
		defer func() { _ = publisher.Close() }()

		handlerOptions = append(handlerOptions, shell.WithEventPublisher(publisher))
	}

	handlers, err := httpapi.BuildHandlers(engine, obs, handlerOptions...)
	if err != nil {
		return fmt.Errorf("building handlers: %w", err)
	}

	accessLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(httpapi.NewHandler(handlers), accessLogger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr, "db_adapter", cfg.DBAdapter)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	}
}

// openEngine connects with the configured database adapter. The returned func closes the connection.
func openEngine(ctx context.Context, cfg config.ServiceConfig, options ...postgresengine.Option) (*postgresengine.Engine, func(), error) {
	switch cfg.DBAdapter {
	case config.DBAdapterSQLDB:
		db, err := config.OpenPostgresSQLDB(ctx, cfg.PostgresDSN, cfg.Pool)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}

		engine, err := postgresengine.NewEngineFromSQLDB(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return engine, func() { _ = db.Close() }, nil

	case config.DBAdapterSQLXDB:
		db, err := config.OpenPostgresSQLX(ctx, cfg.PostgresDSN, cfg.Pool)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}

		engine, err := postgresengine.NewEngineFromSQLX(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return engine, func() { _ = db.Close() }, nil

	default:
		poolConfig, err := config.PostgresPGXPoolConfig(cfg.PostgresDSN, cfg.Pool)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing database config: %w", err)
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}

		if err = pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}

		engine, err := postgresengine.NewEngineFromPGXPool(pool, options...)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return engine, pool.Close, nil
	}
}
