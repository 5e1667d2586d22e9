package cartview

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// Project builds the CartView from the cart and the current state of its items.
// An empty cart has zero totals, no shipping cost included.
func Project(cart shop.Cart, items map[uuid.UUID]shop.CatalogItem) CartView {
	lines := make([]CartLineView, 0, len(cart.Lines))
	priced := make([]shop.OrderLine, 0, len(cart.Lines))

	for _, line := range cart.Lines {
		item := items[line.ItemID]
		orderLine := shop.OrderLine{
			ItemID:    item.ID,
			Title:     item.Title,
			Quantity:  line.Quantity,
			UnitPrice: item.UnitPrice,
		}
		priced = append(priced, orderLine)

		lines = append(lines, CartLineView{
			ItemID:         line.ItemID.String(),
			Title:          item.Title,
			UnitPrice:      item.UnitPrice,
			Quantity:       line.Quantity,
			LineTotal:      orderLine.LineTotal(),
			AvailableStock: item.QuantityOnHand,
			InStock:        item.HasStockFor(line.Quantity),
		})
	}

	totals := shop.ZeroTotals()
	if !cart.IsEmpty() {
		totals = shop.ComputeTotals(priced)
	}

	return CartView{
		CustomerID:        cart.CustomerID.String(),
		Lines:             lines,
		TotalItems:        cart.TotalItems(),
		EstimatedSubtotal: totals.Subtotal,
		EstimatedTax:      totals.Tax,
		EstimatedShipping: totals.Shipping,
		EstimatedTotal:    totals.Total,
		UpdatedAt:         cart.UpdatedAt,
	}
}
