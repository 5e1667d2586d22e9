package core

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// OrderLineView is the read model of one order line.
type OrderLineView struct {
	ItemID    string          `json:"itemId"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// OrderView is the read model of an order as returned by the order queries.
type OrderView struct {
	ID              string          `json:"id"`
	Number          string          `json:"orderNumber"`
	CustomerID      string          `json:"customerId"`
	Status          string          `json:"status"`
	Lines           []OrderLineView `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	Shipping        decimal.Decimal `json:"shippingCost"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Carrier         string          `json:"shippingCarrier,omitempty"`
	TrackingNumber  string          `json:"trackingNumber,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	ShippedAt       *time.Time      `json:"shippedAt,omitempty"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
}

// ProjectOrder builds the read model of an order.
func ProjectOrder(order shop.Order) OrderView {
	lines := make([]OrderLineView, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLineView{
			ItemID:    line.ItemID.String(),
			Title:     line.Title,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal(),
		})
	}

	return OrderView{
		ID:              order.ID.String(),
		Number:          order.Number,
		CustomerID:      order.CustomerID.String(),
		Status:          order.Status.String(),
		Lines:           lines,
		Subtotal:        order.Totals.Subtotal,
		Tax:             order.Totals.Tax,
		Shipping:        order.Totals.Shipping,
		Total:           order.Totals.Total,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
		Carrier:         string(order.Carrier),
		TrackingNumber:  order.TrackingNumber,
		Notes:           order.Notes,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
		ShippedAt:       order.ShippedAt,
		DeliveredAt:     order.DeliveredAt,
	}
}

// ProjectOrders builds the read models of a listing, keeping its order.
func ProjectOrders(orders []shop.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, ProjectOrder(order))
	}

	return views
}
