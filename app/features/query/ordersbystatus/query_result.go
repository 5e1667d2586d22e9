package ordersbystatus

import (
	"github.com/AntonStoeckl/checkout-engine-go/app/shared/core"
)

// OrdersByStatus is one page of the orders in a status.
type OrdersByStatus struct {
	Status string           `json:"status"`
	Orders []core.OrderView `json:"orders"`
	Count  int              `json:"count"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}
