package removecartline

import (
	"github.com/google/uuid"
)

// Command represents the intent to drop an item from the customer's cart.
type Command struct {
	CustomerID uuid.UUID
	ItemID     uuid.UUID
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return "RemoveCartLine"
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(customerID uuid.UUID, itemID uuid.UUID) Command {
	return Command{
		CustomerID: customerID,
		ItemID:     itemID,
	}
}
