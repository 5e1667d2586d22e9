package memoryengine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// ErrNegativeQuantityOnHand is returned when a catalog item is seeded with stock below zero.
var ErrNegativeQuantityOnHand = errors.New("quantity on hand must not be negative")

// Engine keeps committed state in maps guarded by mu.
type Engine struct {
	mu      sync.RWMutex
	items   map[uuid.UUID]shop.CatalogItem
	carts   map[uuid.UUID]shop.Cart
	orders  map[uuid.UUID]shop.Order
	numbers map[string]uuid.UUID
	actors  map[uuid.UUID]shop.Actor

	locks  *keyedLocks
	clock  func() time.Time
	logger shop.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine) error

// WithClock replaces time.Now, mostly for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) error {
		e.clock = clock
		return nil
	}
}

// WithLogger sets the logger for commit and rollback messages at debug level.
func WithLogger(logger shop.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// NewEngine creates an empty Engine.
func NewEngine(options ...Option) (*Engine, error) {
	e := &Engine{
		items:   make(map[uuid.UUID]shop.CatalogItem),
		carts:   make(map[uuid.UUID]shop.Cart),
		orders:  make(map[uuid.UUID]shop.Order),
		numbers: make(map[string]uuid.UUID),
		actors:  make(map[uuid.UUID]shop.Actor),
		locks:   newKeyedLocks(),
		clock:   time.Now,
	}

	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// PutCatalogItem inserts or replaces a catalog item. Catalog administration is not part of the
// units of work, so seeding must not race with checkouts of the same item.
func (e *Engine) PutCatalogItem(item shop.CatalogItem) error {
	if item.QuantityOnHand < 0 {
		return ErrNegativeQuantityOnHand
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.items[item.ID] = item

	return nil
}

// QuantityOnHand returns the committed stock of an item.
func (e *Engine) QuantityOnHand(itemID uuid.UUID) (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	item, ok := e.items[itemID]

	return item.QuantityOnHand, ok
}

// PutActor registers a user with a role.
func (e *Engine) PutActor(actor shop.Actor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.actors[actor.UserID] = actor
}

// ResolveActor implements shop.IdentityResolver.
func (e *Engine) ResolveActor(_ context.Context, userID uuid.UUID) (shop.Actor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	actor, ok := e.actors[userID]
	if !ok {
		return shop.Actor{}, shop.NewNotFoundError("User not found")
	}

	return actor, nil
}

// BeginUnitOfWork implements shop.UnitOfWorkFactory.
func (e *Engine) BeginUnitOfWork(ctx context.Context) (shop.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return newUnitOfWork(e), nil
}

func (e *Engine) logDebug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
