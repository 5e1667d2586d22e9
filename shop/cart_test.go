package shop_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

func givenItem(onHand int) shop.CatalogItem {
	return shop.CatalogItem{
		ID:             uuid.New(),
		Title:          "The Go Programming Language",
		UnitPrice:      decimal.RequireFromString("34.50"),
		QuantityOnHand: onHand,
	}
}

func Test_Cart_AddLine_AppendsNewLine(t *testing.T) {
	// arrange
	item := givenItem(5)
	cart := shop.NewCart(uuid.New(), time.Now())

	// act
	updated, err := cart.AddLine(item, 2)

	// assert
	require.NoError(t, err)
	line, found := updated.Line(item.ID)
	assert.True(t, found)
	assert.Equal(t, 2, line.Quantity)
	assert.True(t, cart.IsEmpty(), "original cart must stay untouched")
}

func Test_Cart_AddLine_MergesWithExistingLine(t *testing.T) {
	// arrange
	item := givenItem(5)
	cart, err := shop.NewCart(uuid.New(), time.Now()).AddLine(item, 2)
	require.NoError(t, err)

	// act
	updated, err := cart.AddLine(item, 3)

	// assert
	require.NoError(t, err)
	assert.Len(t, updated.Lines, 1)
	assert.Equal(t, 5, updated.TotalItems())
}

func Test_Cart_AddLine_Fails_WhenCombinedQuantityExceedsStock(t *testing.T) {
	// arrange
	item := givenItem(4)
	cart, err := shop.NewCart(uuid.New(), time.Now()).AddLine(item, 3)
	require.NoError(t, err)

	// act
	_, err = cart.AddLine(item, 2)

	// assert
	var stockErr *shop.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 4, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
}

func Test_Cart_AddLine_Fails_WhenRequestedQuantityExceedsStock(t *testing.T) {
	// arrange
	item := givenItem(1)

	// act
	_, err := shop.NewCart(uuid.New(), time.Now()).AddLine(item, 2)

	// assert
	assert.ErrorIs(t, err, shop.ErrInsufficientStock)
}

func Test_Cart_AddLine_Fails_WhenQuantityNotPositive(t *testing.T) {
	// act
	_, err := shop.NewCart(uuid.New(), time.Now()).AddLine(givenItem(3), 0)

	// assert
	assert.ErrorIs(t, err, shop.ErrBadRequest)
}

func Test_Cart_SetLineQuantity(t *testing.T) {
	item := givenItem(10)
	cart, err := shop.NewCart(uuid.New(), time.Now()).AddLine(item, 2)
	require.NoError(t, err)

	t.Run("replaces quantity", func(t *testing.T) {
		updated, err := cart.SetLineQuantity(item, 7)

		require.NoError(t, err)
		assert.Equal(t, 7, updated.TotalItems())
	})

	t.Run("removes line on zero", func(t *testing.T) {
		updated, err := cart.SetLineQuantity(item, 0)

		require.NoError(t, err)
		assert.True(t, updated.IsEmpty())
	})

	t.Run("removes line on negative", func(t *testing.T) {
		updated, err := cart.SetLineQuantity(item, -1)

		require.NoError(t, err)
		assert.True(t, updated.IsEmpty())
	})

	t.Run("fails above stock", func(t *testing.T) {
		_, err := cart.SetLineQuantity(item, 11)

		assert.ErrorIs(t, err, shop.ErrInsufficientStock)
	})

	t.Run("fails for unknown line", func(t *testing.T) {
		_, err := cart.SetLineQuantity(givenItem(10), 1)

		assert.ErrorIs(t, err, shop.ErrNotFound)
	})
}

func Test_Cart_RemoveLine_And_Clear(t *testing.T) {
	// arrange
	first, second := givenItem(3), givenItem(3)
	cart, err := shop.NewCart(uuid.New(), time.Now()).AddLine(first, 1)
	require.NoError(t, err)
	cart, err = cart.AddLine(second, 2)
	require.NoError(t, err)

	// act
	removed, removeErr := cart.RemoveLine(first.ID)
	_, missingErr := removed.RemoveLine(first.ID)
	cleared := cart.Clear()

	// assert
	require.NoError(t, removeErr)
	assert.Equal(t, 2, removed.TotalItems())
	assert.ErrorIs(t, missingErr, shop.ErrNotFound)
	assert.True(t, cleared.IsEmpty())
	assert.Equal(t, cart.CustomerID, cleared.CustomerID)
	assert.Len(t, cart.Lines, 2, "original cart must stay untouched")
}
