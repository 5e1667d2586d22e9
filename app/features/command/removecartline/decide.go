package removecartline

import (
	"github.com/AntonStoeckl/checkout-engine-go/app/shared/core"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// Decide returns the cart without the line. A missing line is NotFound, not a no-op.
func Decide(cart shop.Cart, command Command) core.DecisionResult[shop.Cart] {
	updated, err := cart.RemoveLine(command.ItemID)
	if err != nil {
		return core.ErrorDecision[shop.Cart](err)
	}

	return core.SuccessDecision(updated)
}
