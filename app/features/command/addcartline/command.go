package addcartline

import (
	"github.com/google/uuid"
)

// Command represents the intent to put quantity units of an item into the customer's cart.
type Command struct {
	CustomerID uuid.UUID
	ItemID     uuid.UUID
	Quantity   int
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return "AddCartLine"
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(customerID uuid.UUID, itemID uuid.UUID, quantity int) Command {
	return Command{
		CustomerID: customerID,
		ItemID:     itemID,
		Quantity:   quantity,
	}
}
