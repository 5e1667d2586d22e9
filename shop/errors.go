package shop

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error kinds surfaced to callers. Every failure of a core operation unwraps to exactly one of them.
var (
	ErrNotFound          = errors.New("not found")
	ErrBadRequest        = errors.New("bad request")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrForbidden         = errors.New("forbidden")
)

// Infrastructure errors. They never reach a caller as a business outcome.
var (
	ErrConcurrencyConflict         = errors.New("concurrency error, no rows were affected")
	ErrNilDatabaseConnection       = errors.New("database connection must not be nil")
	ErrBuildingQueryFailed         = errors.New("building the sql query failed")
	ErrQueryingFailed              = errors.New("querying the database failed")
	ErrWritingFailed               = errors.New("writing to the database failed")
	ErrScanningDBRowFailed         = errors.New("scanning the database row failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting rows affected failed")
	ErrBeginningTransactionFailed  = errors.New("beginning the transaction failed")
	ErrCommittingTransactionFailed = errors.New("committing the transaction failed")
	ErrUnitOfWorkClosed            = errors.New("unit of work is already committed or rolled back")
)

// ErrorKind is the stable, machine-readable classification of a failure.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindBadRequest        ErrorKind = "bad_request"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindForbidden         ErrorKind = "forbidden"
	KindInternal          ErrorKind = "internal"
)

// KindOf classifies any error returned by this module.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrBadRequest):
		return KindBadRequest
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	default:
		return KindInternal
	}
}

// Error is a business failure with a human-readable reason.
type Error struct {
	kind   error
	reason string
}

func (e *Error) Error() string {
	return e.reason
}

func (e *Error) Unwrap() error {
	return e.kind
}

// Reason returns the human-readable rule that was violated.
func (e *Error) Reason() string {
	return e.reason
}

// NewNotFoundError builds a NotFound failure.
func NewNotFoundError(format string, args ...any) error {
	return &Error{kind: ErrNotFound, reason: fmt.Sprintf(format, args...)}
}

// NewBadRequestError builds a BadRequest failure.
func NewBadRequestError(format string, args ...any) error {
	return &Error{kind: ErrBadRequest, reason: fmt.Sprintf(format, args...)}
}

// NewForbiddenError builds a Forbidden failure.
func NewForbiddenError(format string, args ...any) error {
	return &Error{kind: ErrForbidden, reason: fmt.Sprintf(format, args...)}
}

// InsufficientStockError names the item and the counts that did not fit.
type InsufficientStockError struct {
	ItemID    uuid.UUID
	Title     string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	name := e.Title
	if name == "" {
		name = e.ItemID.String()
	}

	return fmt.Sprintf("Insufficient stock for item: %s. Available: %d, Requested: %d", name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// NewInsufficientStockError builds an InsufficientStock failure for the given item.
func NewInsufficientStockError(item CatalogItem, requested int) error {
	return &InsufficientStockError{
		ItemID:    item.ID,
		Title:     item.Title,
		Available: item.QuantityOnHand,
		Requested: requested,
	}
}

// Reason returns the message that may be shown to the caller, hiding internal errors.
func Reason(err error) string {
	var shopErr *Error
	if errors.As(err, &shopErr) {
		return shopErr.Reason()
	}

	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		return stockErr.Error()
	}

	return "internal error"
}
