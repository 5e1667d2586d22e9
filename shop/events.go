package shop

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderEventType names a lifecycle notification.
type OrderEventType string

const (
	OrderPlacedEventType        OrderEventType = "OrderPlaced"
	OrderStatusChangedEventType OrderEventType = "OrderStatusChanged"
)

// OrderEvent is published after the unit of work that produced it has committed.
type OrderEvent struct {
	Type           OrderEventType
	OrderID        uuid.UUID
	OrderNumber    string
	CustomerID     uuid.UUID
	Status         OrderStatus
	PreviousStatus OrderStatus
	Total          decimal.Decimal
	OccurredAt     time.Time
}

// OrderPlaced builds the notification for a freshly committed order.
func OrderPlaced(order Order) OrderEvent {
	return OrderEvent{
		Type:        OrderPlacedEventType,
		OrderID:     order.ID,
		OrderNumber: order.Number,
		CustomerID:  order.CustomerID,
		Status:      order.Status,
		Total:       order.Totals.Total,
		OccurredAt:  order.CreatedAt,
	}
}

// OrderStatusChanged builds the notification for a committed transition.
func OrderStatusChanged(order Order, previous OrderStatus) OrderEvent {
	return OrderEvent{
		Type:           OrderStatusChangedEventType,
		OrderID:        order.ID,
		OrderNumber:    order.Number,
		CustomerID:     order.CustomerID,
		Status:         order.Status,
		PreviousStatus: previous,
		Total:          order.Totals.Total,
		OccurredAt:     order.UpdatedAt,
	}
}

// OrderEventPublisher delivers lifecycle notifications. Failures never undo the committed change.
type OrderEventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

// DiscardingPublisher drops all events.
type DiscardingPublisher struct{}

// Publish implements OrderEventPublisher.
func (DiscardingPublisher) Publish(context.Context, OrderEvent) error {
	return nil
}
