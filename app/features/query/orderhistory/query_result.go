package orderhistory

import (
	"github.com/AntonStoeckl/checkout-engine-go/app/shared/core"
)

// OrderHistory is one page of a customer's orders.
type OrderHistory struct {
	CustomerID string           `json:"customerId"`
	Orders     []core.OrderView `json:"orders"`
	Count      int              `json:"count"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
}
