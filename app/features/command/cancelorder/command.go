package cancelorder

import (
	"github.com/google/uuid"
)

// Command represents the intent to cancel an order.
type Command struct {
	OrderID          uuid.UUID
	RequestingUserID uuid.UUID
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return "CancelOrder"
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(orderID uuid.UUID, requestingUserID uuid.UUID) Command {
	return Command{
		OrderID:          orderID,
		RequestingUserID: requestingUserID,
	}
}
