package orderbynumber

import (
	"strings"

	"github.com/google/uuid"
)

const (
	queryType = "OrderByNumber"
)

// Query represents the intent to view one order by its number.
type Query struct {
	UserID      uuid.UUID
	OrderNumber string
}

// BuildQuery creates a new Query. The order number is matched case-insensitively.
func BuildQuery(userID uuid.UUID, orderNumber string) Query {
	return Query{
		UserID:      userID,
		OrderNumber: strings.ToUpper(strings.TrimSpace(orderNumber)),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
