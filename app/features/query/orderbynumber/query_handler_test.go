package orderbynumber_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/checkout-engine-go/app/features/query/orderbynumber"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
	. "github.com/AntonStoeckl/checkout-engine-go/testutil/helper" //nolint:revive
)

func Test_QueryHandler_Handle(t *testing.T) {
	ctx := context.Background()
	item := GivenCatalogItem(t, "Refactoring", "47.99", 5)
	owner := GivenCustomer(t)
	stranger := GivenCustomer(t)
	engine := GivenMemoryEngine(t, []shop.CatalogItem{item}, owner, stranger)
	order := GivenPlacedOrder(t, engine, owner.UserID, shop.CartLine{ItemID: item.ID, Quantity: 1})
	handler := orderbynumber.NewQueryHandler(engine)

	t.Run("owner finds the order case-insensitively", func(t *testing.T) {
		view, err := handler.Handle(ctx, orderbynumber.BuildQuery(owner.UserID, " "+strings.ToLower(order.Number)))

		require.NoError(t, err)
		assert.Equal(t, order.ID.String(), view.ID)
	})

	t.Run("another customer is forbidden", func(t *testing.T) {
		_, err := handler.Handle(ctx, orderbynumber.BuildQuery(stranger.UserID, order.Number))
		assert.ErrorIs(t, err, shop.ErrForbidden)
	})

	t.Run("unknown number", func(t *testing.T) {
		_, err := handler.Handle(ctx, orderbynumber.BuildQuery(owner.UserID, "ORD-FFFFFFFF"))
		assert.ErrorIs(t, err, shop.ErrNotFound)
	})
}
