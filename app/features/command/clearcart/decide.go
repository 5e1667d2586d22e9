package clearcart

import (
	"github.com/AntonStoeckl/checkout-engine-go/app/shared/core"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// Decide returns the emptied cart, or an idempotent decision when there is nothing to remove.
func Decide(cart shop.Cart) core.DecisionResult[shop.Cart] {
	if cart.IsEmpty() {
		return core.IdempotentDecision[shop.Cart]()
	}

	return core.SuccessDecision(cart.Clear())
}
