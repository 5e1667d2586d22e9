package shop

import (
	"context"

	"github.com/google/uuid"
)

// StockLedger serializes all changes to quantity-on-hand.
//
// Reserve must never let two concurrent callers oversell the same item: implementations either hold an
// exclusive per-item lock across check-and-decrement or use a versioned compare-and-swap with bounded retries.
// Both methods return the new quantity-on-hand and persist synchronously within the current unit of work.
type StockLedger interface {
	Reserve(ctx context.Context, itemID uuid.UUID, quantity int) (int, error)
	Restore(ctx context.Context, itemID uuid.UUID, quantity int) (int, error)
}

// ValidateStockQuantity rejects quantities that cannot be reserved or restored.
func ValidateStockQuantity(quantity int) error {
	if quantity < 1 {
		return NewBadRequestError("Quantity must be at least 1, got %d", quantity)
	}

	return nil
}
