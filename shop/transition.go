package shop

import (
	"context"
)

// StoreTransition persists a transition produced by Order.ApplyTransition within uow. Entering CANCELLED
// returns every line's quantity to the ledger. The envelope update is guarded by the version of before,
// so of two concurrent transitions of the same order only one can be stored and a cancellation restores
// stock at most once.
func StoreTransition(ctx context.Context, uow UnitOfWork, before, after Order) error {
	if after.Status == StatusCancelled {
		if err := restoreLines(ctx, uow.Stock(), after.Lines); err != nil {
			return err
		}
	}

	return uow.Orders().UpdateOrderEnvelope(ctx, after, before.Version)
}

func restoreLines(ctx context.Context, ledger StockLedger, lines []OrderLine) error {
	for _, line := range lines {
		if _, err := ledger.Restore(ctx, line.ItemID, line.Quantity); err != nil {
			return err
		}
	}

	return nil
}
