package addcartline

import (
	"github.com/AntonStoeckl/checkout-engine-go/app/shared/core"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// Decide returns the cart with the line added or merged.
func Decide(cart shop.Cart, item shop.CatalogItem, command Command) core.DecisionResult[shop.Cart] {
	updated, err := cart.AddLine(item, command.Quantity)
	if err != nil {
		return core.ErrorDecision[shop.Cart](err)
	}

	return core.SuccessDecision(updated)
}
