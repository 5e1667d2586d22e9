package postgresengine

import (
	"errors"
	"time"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// StockStrategy selects how Reserve serializes concurrent decrements of the same item.
type StockStrategy int

const (
	// StockStrategyRowLock runs a conditional UPDATE that takes the item's row lock until commit.
	StockStrategyRowLock StockStrategy = iota

	// StockStrategyOptimistic reads the item's version and swaps only if it is unchanged, retrying a bounded number of times.
	StockStrategyOptimistic
)

const defaultMaxStockRetries = 5

var (
	ErrUnknownStockStrategy   = errors.New("unknown stock strategy")
	ErrInvalidMaxStockRetries = errors.New("max stock retries must be at least 1")
)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine) error

// WithLogger sets the logger for the Engine.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: committed units of work, stock conflicts (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger shop.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger, so log records carry trace and span IDs.
func WithContextualLogger(logger shop.ContextualLogger) Option {
	return func(e *Engine) error {
		e.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Engine.
func WithMetrics(collector shop.MetricsCollector) Option {
	return func(e *Engine) error {
		e.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Engine.
func WithTracing(collector shop.TracingCollector) Option {
	return func(e *Engine) error {
		e.tracingCollector = collector
		return nil
	}
}

// WithStockStrategy selects the stock serialization strategy. The default is StockStrategyRowLock.
func WithStockStrategy(strategy StockStrategy) Option {
	return func(e *Engine) error {
		switch strategy {
		case StockStrategyRowLock, StockStrategyOptimistic:
			e.stockStrategy = strategy
			return nil
		default:
			return ErrUnknownStockStrategy
		}
	}
}

// WithMaxStockRetries bounds the compare-and-swap attempts of StockStrategyOptimistic.
func WithMaxStockRetries(maxRetries int) Option {
	return func(e *Engine) error {
		if maxRetries < 1 {
			return ErrInvalidMaxStockRetries
		}

		e.maxStockRetries = maxRetries

		return nil
	}
}

// WithClock replaces time.Now for cart timestamps.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) error {
		e.clock = clock
		return nil
	}
}
