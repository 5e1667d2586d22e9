package checkout

import (
	"github.com/google/uuid"
)

// Command represents the intent to turn the customer's cart into an order.
type Command struct {
	CustomerID      uuid.UUID
	ShippingAddress string
	Notes           string
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return "Checkout"
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(customerID uuid.UUID, shippingAddress string, notes string) Command {
	return Command{
		CustomerID:      customerID,
		ShippingAddress: shippingAddress,
		Notes:           notes,
	}
}
