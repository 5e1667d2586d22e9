// Command loadsim lets many customers race to check out one scarce item and verifies that stock is never oversold.
//
// By default it runs against the in-memory engine. With -postgres it uses the database from SHOP_POSTGRES_DSN,
// applying the schema first.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/checkout-engine-go/app/shared/shell/config"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
	"github.com/AntonStoeckl/checkout-engine-go/shop/memoryengine"
	"github.com/AntonStoeckl/checkout-engine-go/shop/oteladapters"
	"github.com/AntonStoeckl/checkout-engine-go/shop/postgresengine"
)

const (
	defaultCustomers = 50
	defaultStock     = 10
	defaultQuantity  = 1
	defaultRounds    = 3
)

func main() {
	cfg := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	sim := NewSimulation(store, cfg, oteladapters.NewSlogBridgeLoggerWithHandler(logger.Handler()))
	if err = sim.Seed(ctx); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	oversold := false
	for round := 1; round <= cfg.Rounds; round++ {
		report, runErr := sim.RunRound(ctx)
		if runErr != nil {
			log.Fatalf("Round %d failed: %v", round, runErr)
		}

		logger.Info("round finished",
			"round", round,
			"succeeded", report.Succeeded,
			"insufficient_stock", report.InsufficientStock,
			"failed", report.Failed,
			"stock_left", report.StockLeft,
			"oversold", report.Oversold(),
		)

		oversold = oversold || report.Oversold()
	}

	if oversold {
		fmt.Fprintln(os.Stderr, "OVERSELL DETECTED")
		os.Exit(1)
	}
}

func parseFlags() Config {
	var (
		customers = flag.Int("customers", defaultCustomers, "Number of concurrent customers per round")
		stock     = flag.Int("stock", defaultStock, "Units on hand at the start of each round")
		quantity  = flag.Int("quantity", defaultQuantity, "Units each customer checks out")
		rounds    = flag.Int("rounds", defaultRounds, "Number of rounds")
		postgres  = flag.Bool("postgres", false, "Run against PostgreSQL instead of the in-memory engine")
		optimist  = flag.Bool("optimistic", false, "Use the optimistic stock strategy (postgres only)")
	)

	flag.Parse()

	if *customers < 1 || *stock < 0 || *quantity < 1 || *rounds < 1 {
		log.Fatalf("customers, quantity and rounds must be positive, stock must not be negative")
	}

	return Config{
		Customers:  *customers,
		Stock:      *stock,
		Quantity:   *quantity,
		Rounds:     *rounds,
		Postgres:   *postgres,
		Optimistic: *optimist,
	}
}

func openStore(ctx context.Context, cfg Config) (Store, func(), error) {
	if !cfg.Postgres {
		engine, err := memoryengine.NewEngine()
		if err != nil {
			return nil, nil, err
		}

		return memoryStore{engine}, func() {}, nil
	}

	poolSettings, err := config.PoolSettingsFromEnv()
	if err != nil {
		return nil, nil, err
	}

	poolConfig, err := config.PostgresPGXPoolConfig(config.PostgresDSN(), poolSettings)
	if err != nil {
		return nil, nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, err
	}

	strategy := postgresengine.StockStrategyRowLock
	if cfg.Optimistic {
		strategy = postgresengine.StockStrategyOptimistic
	}

	engine, err := postgresengine.NewEngineFromPGXPool(pool, postgresengine.WithStockStrategy(strategy))
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	if err = engine.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return engine, pool.Close, nil
}

// memoryStore adapts the in-memory engine's seeding methods to Store.
type memoryStore struct {
	*memoryengine.Engine
}

func (s memoryStore) PutCatalogItem(_ context.Context, item shop.CatalogItem) error {
	return s.Engine.PutCatalogItem(item)
}

func (s memoryStore) PutActor(_ context.Context, actor shop.Actor) error {
	s.Engine.PutActor(actor)
	return nil
}
