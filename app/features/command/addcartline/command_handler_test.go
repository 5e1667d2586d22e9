package addcartline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/addcartline"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
	. "github.com/AntonStoeckl/checkout-engine-go/testutil/helper" //nolint:revive
)

func Test_CommandHandler_Handle_MergesLinesWithoutReserving(t *testing.T) {
	// arrange
	ctx := context.Background()
	item := GivenCatalogItem(t, "Designing Data-Intensive Applications", "39.90", 5)
	customer := GivenCustomer(t)
	engine := GivenMemoryEngine(t, []shop.CatalogItem{item}, customer)
	handler := addcartline.NewCommandHandler(engine)

	// act
	_, _, err := handler.Handle(ctx, addcartline.BuildCommand(customer.UserID, item.ID, 2))
	require.NoError(t, err)
	cart, result, err := handler.Handle(ctx, addcartline.BuildCommand(customer.UserID, item.ID, 3))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 5, cart.Lines[0].Quantity)
	assert.Equal(t, 5, StockOf(t, engine, item.ID), "cart operations never touch stock")
}

func Test_CommandHandler_Handle_Errors(t *testing.T) {
	ctx := context.Background()
	item := GivenCatalogItem(t, "Designing Data-Intensive Applications", "39.90", 3)
	customer := GivenCustomer(t)
	engine := GivenMemoryEngine(t, []shop.CatalogItem{item}, customer)
	GivenCartWith(t, engine, customer.UserID, shop.CartLine{ItemID: item.ID, Quantity: 2})
	handler := addcartline.NewCommandHandler(engine)

	t.Run("requested quantity exceeds stock", func(t *testing.T) {
		_, _, err := handler.Handle(ctx, addcartline.BuildCommand(customer.UserID, item.ID, 4))

		var stockErr *shop.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 4, stockErr.Requested)
	})

	t.Run("merged quantity exceeds stock", func(t *testing.T) {
		_, _, err := handler.Handle(ctx, addcartline.BuildCommand(customer.UserID, item.ID, 2))

		var stockErr *shop.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 3, stockErr.Available)
		assert.Equal(t, 4, stockErr.Requested)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		_, _, err := handler.Handle(ctx, addcartline.BuildCommand(customer.UserID, item.ID, 0))
		assert.ErrorIs(t, err, shop.ErrBadRequest)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, _, err := handler.Handle(ctx, addcartline.BuildCommand(customer.UserID, GivenUniqueID(t), 1))
		assert.ErrorIs(t, err, shop.ErrNotFound)
	})
}
