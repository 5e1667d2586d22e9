package cancelorder

import (
	"time"

	"github.com/AntonStoeckl/checkout-engine-go/app/shared/core"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// Decide checks ownership and the current status and returns the cancelled order.
func Decide(actor shop.Actor, order shop.Order, now time.Time) core.DecisionResult[shop.Order] {
	if !actor.MayActOnBehalfOf(order.CustomerID) {
		return core.ErrorDecision[shop.Order](shop.NewForbiddenError("You are not authorized to cancel this order"))
	}

	if !order.Status.IsCancellable() {
		return core.ErrorDecision[shop.Order](shop.NewBadRequestError("Order cannot be cancelled. Current status: %s", order.Status))
	}

	cancelled, err := order.ApplyTransition(shop.StatusCancelled, shop.EnvelopeUpdate{}, now)
	if err != nil {
		return core.ErrorDecision[shop.Order](err)
	}

	return core.SuccessDecision(cancelled)
}
