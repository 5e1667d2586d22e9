package ordersbystatus

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

const (
	queryType = "OrdersByStatus"
)

// Query represents a staff member's intent to list orders in one status.
type Query struct {
	ActorID uuid.UUID
	Status  shop.OrderStatus
	Page    shop.Page
}

// BuildQuery creates a new Query. Out-of-range paging values are clamped.
func BuildQuery(actorID uuid.UUID, status shop.OrderStatus, limit int, offset int) Query {
	return Query{
		ActorID: actorID,
		Status:  status,
		Page:    shop.Page{Limit: limit, Offset: offset}.Normalized(),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
