package cartview

import (
	"github.com/google/uuid"
)

const (
	queryType = "CartView"
)

// Query represents the intent to view the customer's cart.
type Query struct {
	CustomerID uuid.UUID
}

// BuildQuery creates a new Query with the provided customer ID.
func BuildQuery(customerID uuid.UUID) Query {
	return Query{CustomerID: customerID}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
