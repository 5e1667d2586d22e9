package checkout

import (
	"bytes"
	"slices"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/checkout-engine-go/app/shared/core"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// Decide validates the request and the cart against the items' current stock and returns the line
// snapshots to reserve, sorted by item ID so that concurrent checkouts lock items in the same order.
//
// items must contain every item referenced by the cart.
func Decide(cart shop.Cart, items map[uuid.UUID]shop.CatalogItem, command Command) core.DecisionResult[[]shop.OrderLine] {
	if err := shop.ValidateShippingAddress(command.ShippingAddress); err != nil {
		return core.ErrorDecision[[]shop.OrderLine](err)
	}

	if err := shop.ValidateNotes(command.Notes); err != nil {
		return core.ErrorDecision[[]shop.OrderLine](err)
	}

	if cart.IsEmpty() {
		return core.ErrorDecision[[]shop.OrderLine](shop.NewBadRequestError("Cannot checkout with an empty cart"))
	}

	snapshot := make([]shop.OrderLine, 0, len(cart.Lines))

	for _, line := range cart.Lines {
		item, ok := items[line.ItemID]
		if !ok {
			return core.ErrorDecision[[]shop.OrderLine](shop.NewNotFoundError("Item not found: %s", line.ItemID))
		}

		if !item.HasStockFor(line.Quantity) {
			return core.ErrorDecision[[]shop.OrderLine](shop.NewInsufficientStockError(item, line.Quantity))
		}

		snapshot = append(snapshot, shop.OrderLine{
			ItemID:    item.ID,
			Title:     item.Title,
			Quantity:  line.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	slices.SortFunc(snapshot, func(a, b shop.OrderLine) int {
		return bytes.Compare(a.ItemID[:], b.ItemID[:])
	})

	return core.SuccessDecision(snapshot)
}
