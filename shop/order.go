package shop

import (
	"context"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// PaymentMethodCashOnDelivery is the only supported payment method.
	PaymentMethodCashOnDelivery = "CASH_ON_DELIVERY"

	// MaxShippingAddressLength and MaxNotesLength are measured in characters.
	MaxShippingAddressLength = 500
	MaxNotesLength           = 500

	orderNumberPrefix = "ORD-"
	orderNumberLength = 8
)

// OrderLine captures an item at the price it was bought for. It is never recomputed from the catalog.
type OrderLine struct {
	ItemID    uuid.UUID
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// LineTotal is unit price times quantity.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is immutable after creation except for its status envelope:
// Status, Carrier, TrackingNumber, Notes, UpdatedAt, ShippedAt and DeliveredAt.
type Order struct {
	ID              uuid.UUID
	Number          string
	CustomerID      uuid.UUID
	Status          OrderStatus
	Lines           []OrderLine
	Totals          Totals
	ShippingAddress string
	PaymentMethod   string
	Carrier         ShippingCarrier
	TrackingNumber  string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time

	// Version increases with every envelope change and guards concurrent status updates.
	Version uint
}

// NewOrderNumber returns a human-readable order number like ORD-1A2B3C4D.
func NewOrderNumber() string {
	return orderNumberPrefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:orderNumberLength])
}

// NewPendingOrder creates the order shell: PENDING, cash on delivery, no lines, zero totals.
func NewPendingOrder(orderID uuid.UUID, number string, customerID uuid.UUID, shippingAddress, notes string, now time.Time) Order {
	return Order{
		ID:              orderID,
		Number:          number,
		CustomerID:      customerID,
		Status:          StatusPending,
		Lines:           []OrderLine{},
		Totals:          ZeroTotals(),
		ShippingAddress: shippingAddress,
		PaymentMethod:   PaymentMethodCashOnDelivery,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// WithLine appends a line to an order that has not been persisted yet.
func (o Order) WithLine(line OrderLine) Order {
	o.Lines = append(slices.Clone(o.Lines), line)
	return o
}

// WithComputedTotals fixes the totals from the current lines.
func (o Order) WithComputedTotals() Order {
	o.Totals = ComputeTotals(o.Lines)
	return o
}

// TotalQuantity is the order's effect on stock.
func (o Order) TotalQuantity() int {
	total := 0
	for _, line := range o.Lines {
		total += line.Quantity
	}

	return total
}

// IsOwnedBy reports whether customerID placed the order.
func (o Order) IsOwnedBy(customerID uuid.UUID) bool {
	return o.CustomerID == customerID
}

// EnvelopeUpdate carries the optional fields of a status change. Empty values mean "not supplied".
type EnvelopeUpdate struct {
	Carrier        ShippingCarrier
	TrackingNumber string
	Notes          string
}

// ApplyTransition validates to against the transition table and applies the entry effects on the envelope.
// The returned order carries the next version. Stock restoration for CANCELLED is the caller's job,
// inside the same unit of work.
func (o Order) ApplyTransition(to OrderStatus, update EnvelopeUpdate, now time.Time) (Order, error) {
	if err := ValidateTransition(o.Status, to); err != nil {
		return o, err
	}

	if err := ValidateNotes(update.Notes); err != nil {
		return o, err
	}

	changed := o
	changed.Status = to
	changed.UpdatedAt = now
	changed.Version = o.Version + 1

	switch to {
	case StatusShipped:
		shippedAt := now
		changed.ShippedAt = &shippedAt

		if update.Carrier != CarrierNone {
			changed.Carrier = update.Carrier
		}

		if update.TrackingNumber != "" {
			changed.TrackingNumber = update.TrackingNumber
		}

	case StatusDelivered:
		deliveredAt := now
		changed.DeliveredAt = &deliveredAt

	default:
		// no timestamps for the remaining states
	}

	if update.Notes != "" {
		changed.Notes = update.Notes
	}

	return changed, nil
}

// ValidateShippingAddress requires a non-blank address of bounded length.
func ValidateShippingAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return NewBadRequestError("Shipping address is required")
	}

	if utf8.RuneCountInString(address) > MaxShippingAddressLength {
		return NewBadRequestError("Shipping address must not exceed %d characters", MaxShippingAddressLength)
	}

	return nil
}

// ValidateNotes bounds the length of free-text notes.
func ValidateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return NewBadRequestError("Notes must not exceed %d characters", MaxNotesLength)
	}

	return nil
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Page selects a window of a listing. Zero values mean "first page, default size".
type Page struct {
	Limit  int
	Offset int
}

// Normalized clamps the page to sane bounds.
func (p Page) Normalized() Page {
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}

	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}

	if p.Offset < 0 {
		p.Offset = 0
	}

	return p
}

// OrderStore persists orders.
//
// UpdateOrderEnvelope writes only the status envelope together with order.Version and fails with
// ErrConcurrencyConflict when the stored version differs from expectedVersion.
type OrderStore interface {
	CreateOrder(ctx context.Context, order Order) error
	LoadOrder(ctx context.Context, orderID uuid.UUID) (Order, error)
	LoadOrderByNumber(ctx context.Context, number string) (Order, error)
	UpdateOrderEnvelope(ctx context.Context, order Order, expectedVersion uint) error
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page Page) ([]Order, error)
	ListOrdersByStatus(ctx context.Context, status OrderStatus, page Page) ([]Order, error)
}
