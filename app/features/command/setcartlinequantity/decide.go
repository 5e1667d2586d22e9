package setcartlinequantity

import (
	"github.com/AntonStoeckl/checkout-engine-go/app/shared/core"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// Decide returns the cart with the line's new quantity, or without the line for quantities <= 0.
func Decide(cart shop.Cart, item shop.CatalogItem, command Command) core.DecisionResult[shop.Cart] {
	if line, ok := cart.Line(item.ID); ok && line.Quantity == command.Quantity {
		return core.IdempotentDecision[shop.Cart]()
	}

	updated, err := cart.SetLineQuantity(item, command.Quantity)
	if err != nil {
		return core.ErrorDecision[shop.Cart](err)
	}

	return core.SuccessDecision(updated)
}
