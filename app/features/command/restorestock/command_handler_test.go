package restorestock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/restorestock"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
	. "github.com/AntonStoeckl/checkout-engine-go/testutil/helper" //nolint:revive
)

func Test_CommandHandler_Handle(t *testing.T) {
	item := GivenCatalogItem(t, "Structure and Interpretation of Computer Programs", "55.00", 0)
	engine := GivenMemoryEngine(t, []shop.CatalogItem{item})
	handler := restorestock.NewCommandHandler(engine)

	newQuantity, _, err := handler.Handle(context.Background(), restorestock.BuildCommand(item.ID, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, newQuantity)
	assert.Equal(t, 2, StockOf(t, engine, item.ID))

	_, _, err = handler.Handle(context.Background(), restorestock.BuildCommand(item.ID, -1))
	assert.ErrorIs(t, err, shop.ErrBadRequest)

	_, _, err = handler.Handle(context.Background(), restorestock.BuildCommand(GivenUniqueID(t), 1))
	assert.ErrorIs(t, err, shop.ErrNotFound)
}
