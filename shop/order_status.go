package shop

import (
	"strings"
)

// OrderStatus is a position in the fulfillment lifecycle.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// allowedTransitions is the strict forward table. DELIVERED and CANCELLED have no outgoing edges.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// AllOrderStatuses lists the statuses in lifecycle order.
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
}

// ParseOrderStatus accepts a status name in any letter case.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := allowedTransitions[status]; !ok {
		return "", NewBadRequestError("Unknown order status: %s", raw)
	}

	return status, nil
}

func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// IsCancellable reports whether a customer may still cancel an order in this status.
func (s OrderStatus) IsCancellable() bool {
	return s == StatusPending || s == StatusProcessing
}

// CanTransitionTo reports whether the table allows from -> to.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == to {
			return true
		}
	}

	return false
}

// ValidateTransition fails with BadRequest for self-transitions and for pairs outside the table.
func ValidateTransition(from, to OrderStatus) error {
	if from == to {
		return NewBadRequestError("Order is already in %s status", to)
	}

	if !from.CanTransitionTo(to) {
		return NewBadRequestError("Invalid status transition from %s to %s", from, to)
	}

	return nil
}

// ShippingCarrier names the company delivering a shipped order.
type ShippingCarrier string

const (
	CarrierNone  ShippingCarrier = ""
	CarrierUSPS  ShippingCarrier = "USPS"
	CarrierUPS   ShippingCarrier = "UPS"
	CarrierFedEx ShippingCarrier = "FEDEX"
	CarrierDHL   ShippingCarrier = "DHL"
	CarrierOther ShippingCarrier = "OTHER"
)

// ParseShippingCarrier accepts a carrier name in any letter case. An empty string means "not supplied".
func ParseShippingCarrier(raw string) (ShippingCarrier, error) {
	carrier := ShippingCarrier(strings.ToUpper(strings.TrimSpace(raw)))

	switch carrier {
	case CarrierNone, CarrierUSPS, CarrierUPS, CarrierFedEx, CarrierDHL, CarrierOther:
		return carrier, nil
	default:
		return CarrierNone, NewBadRequestError("Unknown shipping carrier: %s", raw)
	}
}
