package orderhistory

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

const (
	queryType = "OrderHistory"
)

// Query represents the intent to list the customer's orders.
type Query struct {
	CustomerID uuid.UUID
	Page       shop.Page
}

// BuildQuery creates a new Query. Out-of-range paging values are clamped.
func BuildQuery(customerID uuid.UUID, limit int, offset int) Query {
	return Query{
		CustomerID: customerID,
		Page:       shop.Page{Limit: limit, Offset: offset}.Normalized(),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
