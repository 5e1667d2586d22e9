package shop

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogItem is the slice of a catalog record that checkout and inventory care about.
type CatalogItem struct {
	ID             uuid.UUID
	Title          string
	UnitPrice      decimal.Decimal
	QuantityOnHand int
}

// HasStockFor reports whether the item's quantity-on-hand covers the requested quantity.
func (i CatalogItem) HasStockFor(quantity int) bool {
	return i.QuantityOnHand >= quantity
}

// Catalog looks up items. It fails with ErrNotFound for unknown items.
type Catalog interface {
	GetItem(ctx context.Context, itemID uuid.UUID) (CatalogItem, error)
}
