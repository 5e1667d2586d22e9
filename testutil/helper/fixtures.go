package helper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// GivenUniqueID generates a unique UUID for testing.
func GivenUniqueID(t testing.TB) uuid.UUID {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id
}

// GivenCatalogItem builds a catalog item with a fresh ID.
func GivenCatalogItem(t testing.TB, title, unitPrice string, quantityOnHand int) shop.CatalogItem {
	price, err := decimal.NewFromString(unitPrice)
	assert.NoError(t, err, "error in arranging test data")

	return shop.CatalogItem{
		ID:             GivenUniqueID(t),
		Title:          title,
		UnitPrice:      price,
		QuantityOnHand: quantityOnHand,
	}
}

// GivenCustomer builds an actor with the CUSTOMER role.
func GivenCustomer(t testing.TB) shop.Actor {
	return shop.Actor{UserID: GivenUniqueID(t), Role: shop.RoleCustomer}
}

// GivenManager builds an actor with the MANAGER role.
func GivenManager(t testing.TB) shop.Actor {
	return shop.Actor{UserID: GivenUniqueID(t), Role: shop.RoleManager}
}

// FixedClock returns a clock that always reports the given time.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// Money parses a decimal amount, failing the test on malformed input.
func Money(t testing.TB, amount string) decimal.Decimal {
	value, err := decimal.NewFromString(amount)
	assert.NoError(t, err, "error in arranging test data")

	return value
}
