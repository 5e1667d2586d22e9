package orderbyid

import (
	"github.com/google/uuid"
)

const (
	queryType = "OrderByID"
)

// Query represents the intent to view one order.
type Query struct {
	UserID  uuid.UUID
	OrderID uuid.UUID
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(userID uuid.UUID, orderID uuid.UUID) Query {
	return Query{
		UserID:  userID,
		OrderID: orderID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
