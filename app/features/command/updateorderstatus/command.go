package updateorderstatus

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// Command represents a staff member's intent to move an order to another status.
type Command struct {
	ActorID        uuid.UUID
	OrderID        uuid.UUID
	NewStatus      shop.OrderStatus
	Carrier        shop.ShippingCarrier
	TrackingNumber string
	Notes          string
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return "UpdateOrderStatus"
}

// BuildCommand creates a new Command with the provided parameters.
// Carrier, trackingNumber and notes are optional; empty values leave the order's fields as they are.
func BuildCommand(
	actorID uuid.UUID,
	orderID uuid.UUID,
	newStatus shop.OrderStatus,
	carrier shop.ShippingCarrier,
	trackingNumber string,
	notes string,
) Command {
	return Command{
		ActorID:        actorID,
		OrderID:        orderID,
		NewStatus:      newStatus,
		Carrier:        carrier,
		TrackingNumber: trackingNumber,
		Notes:          notes,
	}
}
