package updateorderstatus

import (
	"time"

	"github.com/AntonStoeckl/checkout-engine-go/app/shared/core"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// Decide checks the actor's capability and the transition and returns the order as it must be stored.
func Decide(actor shop.Actor, order shop.Order, command Command, now time.Time) core.DecisionResult[shop.Order] {
	if !actor.IsStaff() {
		return core.ErrorDecision[shop.Order](shop.NewForbiddenError("You are not authorized to update the status of this order"))
	}

	changed, err := order.ApplyTransition(command.NewStatus, shop.EnvelopeUpdate{
		Carrier:        command.Carrier,
		TrackingNumber: command.TrackingNumber,
		Notes:          command.Notes,
	}, now)
	if err != nil {
		return core.ErrorDecision[shop.Order](err)
	}

	return core.SuccessDecision(changed)
}
