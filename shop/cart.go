package shop

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// CartLine is one (item, desired quantity) pair. Quantity is always >= 1.
type CartLine struct {
	ItemID   uuid.UUID
	Quantity int
}

// Cart is owned 1:1 by a customer and holds at most one line per item.
//
// Cart methods return a modified copy and never touch stock: quantity checks against the catalog are advisory,
// checkout re-validates them at commit time.
type Cart struct {
	CustomerID uuid.UUID
	Lines      []CartLine
	UpdatedAt  time.Time
}

// NewCart returns the empty cart a customer gets on first access.
func NewCart(customerID uuid.UUID, now time.Time) Cart {
	return Cart{
		CustomerID: customerID,
		Lines:      []CartLine{},
		UpdatedAt:  now,
	}
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// TotalItems sums the quantities of all lines.
func (c Cart) TotalItems() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}

	return total
}

// Line returns the line for itemID, if any.
func (c Cart) Line(itemID uuid.UUID) (CartLine, bool) {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return CartLine{}, false
	}

	return c.Lines[idx], true
}

// AddLine adds quantity units of item, merging with an existing line.
// Both the requested and the merged quantity must fit the item's current stock.
func (c Cart) AddLine(item CatalogItem, quantity int) (Cart, error) {
	if quantity < 1 {
		return c, NewBadRequestError("Quantity must be at least 1, got %d", quantity)
	}

	if !item.HasStockFor(quantity) {
		return c, NewInsufficientStockError(item, quantity)
	}

	updated := c.clone()

	idx := updated.indexOf(item.ID)
	if idx < 0 {
		updated.Lines = append(updated.Lines, CartLine{ItemID: item.ID, Quantity: quantity})
		return updated, nil
	}

	combined := updated.Lines[idx].Quantity + quantity
	if !item.HasStockFor(combined) {
		return c, NewInsufficientStockError(item, combined)
	}

	updated.Lines[idx].Quantity = combined

	return updated, nil
}

// SetLineQuantity replaces the quantity of an existing line. A quantity <= 0 removes the line.
func (c Cart) SetLineQuantity(item CatalogItem, quantity int) (Cart, error) {
	idx := c.indexOf(item.ID)
	if idx < 0 {
		return c, NewNotFoundError("Item not found in cart")
	}

	if quantity <= 0 {
		return c.RemoveLine(item.ID)
	}

	if !item.HasStockFor(quantity) {
		return c, NewInsufficientStockError(item, quantity)
	}

	updated := c.clone()
	updated.Lines[idx].Quantity = quantity

	return updated, nil
}

// RemoveLine drops the line for itemID.
func (c Cart) RemoveLine(itemID uuid.UUID) (Cart, error) {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return c, NewNotFoundError("Item not found in cart")
	}

	updated := c.clone()
	updated.Lines = slices.Delete(updated.Lines, idx, idx+1)

	return updated, nil
}

// Clear removes all lines. The cart itself is never deleted.
func (c Cart) Clear() Cart {
	cleared := c
	cleared.Lines = []CartLine{}

	return cleared
}

// Touch sets the modification timestamp.
func (c Cart) Touch(now time.Time) Cart {
	c.Lines = slices.Clone(c.Lines)
	c.UpdatedAt = now

	return c
}

func (c Cart) indexOf(itemID uuid.UUID) int {
	return slices.IndexFunc(c.Lines, func(line CartLine) bool {
		return line.ItemID == itemID
	})
}

func (c Cart) clone() Cart {
	cloned := c
	cloned.Lines = slices.Clone(c.Lines)
	if cloned.Lines == nil {
		cloned.Lines = []CartLine{}
	}

	return cloned
}

// CartStore persists carts. LoadCartForUpdate lazily creates the cart and holds it exclusively
// until the unit of work ends, so concurrent mutations by the same customer serialize.
type CartStore interface {
	LoadCartForUpdate(ctx context.Context, customerID uuid.UUID) (Cart, error)
	SaveCart(ctx context.Context, cart Cart) error
}
