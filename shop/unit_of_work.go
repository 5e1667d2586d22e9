package shop

import (
	"context"
)

// UnitOfWork is one atomic unit over the durable store. Everything done through its accessors
// becomes visible to others only on Commit, and is discarded on Rollback.
//
// Rollback after Commit is a no-op, so callers can always defer it.
type UnitOfWork interface {
	Catalog() Catalog
	Stock() StockLedger
	Carts() CartStore
	Orders() OrderStore
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UnitOfWorkFactory starts units of work with at least read-committed isolation.
type UnitOfWorkFactory interface {
	BeginUnitOfWork(ctx context.Context) (UnitOfWork, error)
}

// InUnitOfWork runs fn in a fresh unit of work, commits on success and rolls back on any error.
func InUnitOfWork(ctx context.Context, factory UnitOfWorkFactory, fn func(uow UnitOfWork) error) error {
	uow, err := factory.BeginUnitOfWork(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	if err = fn(uow); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// ReadInUnitOfWork runs fn in a fresh unit of work that is always rolled back, for operations that only read.
func ReadInUnitOfWork(ctx context.Context, factory UnitOfWorkFactory, fn func(uow UnitOfWork) error) error {
	uow, err := factory.BeginUnitOfWork(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	return fn(uow)
}
