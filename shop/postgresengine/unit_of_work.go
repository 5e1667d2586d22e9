package postgresengine

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
	"github.com/AntonStoeckl/checkout-engine-go/shop/postgresengine/internal/adapters"
)

// unitOfWork wraps one transaction and implements all four storage ports on it.
type unitOfWork struct {
	engine  *Engine
	tx      adapters.DBTx
	started time.Time
	closed  bool
}

func (u *unitOfWork) Catalog() shop.Catalog   { return u }
func (u *unitOfWork) Stock() shop.StockLedger { return u }
func (u *unitOfWork) Carts() shop.CartStore   { return u }
func (u *unitOfWork) Orders() shop.OrderStore { return u }

// Commit commits the transaction.
func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.closed {
		return shop.ErrUnitOfWorkClosed
	}

	u.closed = true

	spanCtx, span := u.engine.startSpan(ctx, spanNameCommit, map[string]string{spanAttrOperation: operationCommit})

	err := u.tx.Commit(spanCtx)
	duration := time.Since(u.started)

	if err != nil {
		u.engine.logError(spanCtx, logMsgCommitFailed, err)
		u.finish(spanCtx, operationCommit, statusError, duration)
		u.engine.finishSpan(span, statusError, duration, map[string]string{spanAttrErrorType: "commit"})

		return errors.Join(shop.ErrCommittingTransactionFailed, err)
	}

	u.engine.logOperation(spanCtx, logMsgUnitOfWorkCommitted, logAttrDurationMS, toMilliseconds(duration))
	u.finish(spanCtx, operationCommit, statusSuccess, duration)
	u.engine.finishSpan(span, statusSuccess, duration, nil)

	return nil
}

// Rollback rolls the transaction back. It is a no-op once the unit of work is closed.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.closed {
		return nil
	}

	u.closed = true

	if err := u.tx.Rollback(context.WithoutCancel(ctx)); err != nil {
		u.engine.logWarning(ctx, logMsgRollbackFailed, err)
		u.finish(ctx, operationRollback, statusError, time.Since(u.started))

		return err
	}

	u.finish(ctx, operationRollback, statusSuccess, time.Since(u.started))

	return nil
}

func (u *unitOfWork) finish(ctx context.Context, operation, status string, duration time.Duration) {
	labels := map[string]string{spanAttrOperation: operation, labelStatus: status}
	u.engine.recordDuration(ctx, metricUnitOfWorkDuration, duration, labels)
	u.engine.incrementCounter(ctx, metricUnitOfWorkTotal, labels)
}

func (u *unitOfWork) ensureOpen() error {
	if u.closed {
		return shop.ErrUnitOfWorkClosed
	}

	return nil
}
