package clearcart

import (
	"github.com/google/uuid"
)

// Command represents the intent to empty the customer's cart.
type Command struct {
	CustomerID uuid.UUID
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return "ClearCart"
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(customerID uuid.UUID) Command {
	return Command{CustomerID: customerID}
}
