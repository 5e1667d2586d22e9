package restorestock

import (
	"github.com/google/uuid"
)

// Command represents the intent to put quantity units of an item back into stock.
type Command struct {
	ItemID   uuid.UUID
	Quantity int
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return "RestoreStock"
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(itemID uuid.UUID, quantity int) Command {
	return Command{
		ItemID:   itemID,
		Quantity: quantity,
	}
}
