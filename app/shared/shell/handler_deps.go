package shell

import (
	"context"
	"time"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// HandlerDeps holds the collaborators every command handler needs besides its store.
type HandlerDeps struct {
	retryOptions []RetryOption
	publisher    shop.OrderEventPublisher
	logger       Logger
	clock        func() time.Time
}

// HandlerOption configures HandlerDeps.
type HandlerOption func(*HandlerDeps)

// WithRetryOptions tunes the backoff used when a unit of work loses a concurrency race.
func WithRetryOptions(options ...RetryOption) HandlerOption {
	return func(d *HandlerDeps) {
		d.retryOptions = append(d.retryOptions, options...)
	}
}

// WithEventPublisher sets where committed order events go. The default discards them.
func WithEventPublisher(publisher shop.OrderEventPublisher) HandlerOption {
	return func(d *HandlerDeps) {
		if publisher != nil {
			d.publisher = publisher
		}
	}
}

// WithHandlerLogger sets the logger used for failures that do not fail the command, like publishing.
func WithHandlerLogger(logger Logger) HandlerOption {
	return func(d *HandlerDeps) {
		d.logger = logger
	}
}

// WithHandlerClock replaces time.Now for the timestamps a handler writes.
func WithHandlerClock(clock func() time.Time) HandlerOption {
	return func(d *HandlerDeps) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// BuildHandlerDeps applies options over the defaults.
func BuildHandlerDeps(options ...HandlerOption) HandlerDeps {
	deps := HandlerDeps{
		publisher: shop.DiscardingPublisher{},
		clock:     time.Now,
	}

	for _, option := range options {
		option(&deps)
	}

	return deps
}

// Now returns the current time in UTC.
func (d HandlerDeps) Now() time.Time {
	return d.clock().UTC()
}

// Retry runs fn with the configured backoff.
func (d HandlerDeps) Retry(ctx context.Context, fn RetryableFunc) (RetryMetrics, error) {
	return RetryWithExponentialBackoff(ctx, fn, d.retryOptions...)
}

// Publish hands committed events to the configured publisher.
func (d HandlerDeps) Publish(ctx context.Context, events ...shop.OrderEvent) {
	PublishCommitted(ctx, d.publisher, d.logger, events...)
}

// BuildHandlerResult turns the retry outcome into a HandlerResult.
func BuildHandlerResult(retryMetrics RetryMetrics, idempotent bool, err error) HandlerResult {
	switch {
	case err != nil:
		return NewErrorResult(retryMetrics)
	case idempotent:
		return NewIdempotentResult(retryMetrics)
	default:
		return NewSuccessResult(retryMetrics)
	}
}
