package setcartlinequantity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/setcartlinequantity"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
	. "github.com/AntonStoeckl/checkout-engine-go/testutil/helper" //nolint:revive
)

func Test_CommandHandler_Handle(t *testing.T) {
	ctx := context.Background()
	item := GivenCatalogItem(t, "Kubernetes in Action", "49.00", 4)
	customer := GivenCustomer(t)
	engine := GivenMemoryEngine(t, []shop.CatalogItem{item}, customer)
	handler := setcartlinequantity.NewCommandHandler(engine)

	t.Run("missing line", func(t *testing.T) {
		_, _, err := handler.Handle(ctx, setcartlinequantity.BuildCommand(customer.UserID, item.ID, 1))

		assert.ErrorIs(t, err, shop.ErrNotFound)
		assert.Equal(t, "Item not found in cart", shop.Reason(err))
	})

	GivenCartWith(t, engine, customer.UserID, shop.CartLine{ItemID: item.ID, Quantity: 1})

	t.Run("replaces the quantity", func(t *testing.T) {
		cart, result, err := handler.Handle(ctx, setcartlinequantity.BuildCommand(customer.UserID, item.ID, 4))

		require.NoError(t, err)
		assert.False(t, result.Idempotent)
		assert.Equal(t, 4, cart.TotalItems())
	})

	t.Run("same quantity is idempotent", func(t *testing.T) {
		cart, result, err := handler.Handle(ctx, setcartlinequantity.BuildCommand(customer.UserID, item.ID, 4))

		require.NoError(t, err)
		assert.True(t, result.Idempotent)
		assert.Equal(t, 4, cart.TotalItems())
	})

	t.Run("more than in stock", func(t *testing.T) {
		_, _, err := handler.Handle(ctx, setcartlinequantity.BuildCommand(customer.UserID, item.ID, 5))
		assert.ErrorIs(t, err, shop.ErrInsufficientStock)
	})

	t.Run("zero removes the line", func(t *testing.T) {
		cart, _, err := handler.Handle(ctx, setcartlinequantity.BuildCommand(customer.UserID, item.ID, 0))

		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())
	})
}
