package reservestock

import (
	"github.com/google/uuid"
)

// Command represents the intent to take quantity units of an item out of stock.
type Command struct {
	ItemID   uuid.UUID
	Quantity int
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return "ReserveStock"
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(itemID uuid.UUID, quantity int) Command {
	return Command{
		ItemID:   itemID,
		Quantity: quantity,
	}
}
