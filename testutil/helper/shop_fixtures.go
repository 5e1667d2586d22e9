package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
	"github.com/AntonStoeckl/checkout-engine-go/shop/memoryengine"
)

// GivenMemoryEngine returns an in-memory engine stocked with items and knowing actors.
func GivenMemoryEngine(t testing.TB, items []shop.CatalogItem, actors ...shop.Actor) *memoryengine.Engine {
	t.Helper()

	engine, err := memoryengine.NewEngine()
	require.NoError(t, err, "error in arranging test data")

	for _, item := range items {
		require.NoError(t, engine.PutCatalogItem(item), "error in arranging test data")
	}

	for _, actor := range actors {
		engine.PutActor(actor)
	}

	return engine
}

// GivenCartWith puts the given lines into the customer's cart, merging with what is already there.
func GivenCartWith(t testing.TB, factory shop.UnitOfWorkFactory, customerID uuid.UUID, lines ...shop.CartLine) {
	t.Helper()

	ctx := context.Background()

	err := shop.InUnitOfWork(ctx, factory, func(uow shop.UnitOfWork) error {
		cart, err := uow.Carts().LoadCartForUpdate(ctx, customerID)
		if err != nil {
			return err
		}

		for _, line := range lines {
			item, getErr := uow.Catalog().GetItem(ctx, line.ItemID)
			if getErr != nil {
				return getErr
			}

			if cart, err = cart.AddLine(item, line.Quantity); err != nil {
				return err
			}
		}

		return uow.Carts().SaveCart(ctx, cart)
	})
	require.NoError(t, err, "error in arranging test data")
}

// GivenPlacedOrder reserves stock for the lines and stores a PENDING order, like a checkout would.
func GivenPlacedOrder(t testing.TB, factory shop.UnitOfWorkFactory, customerID uuid.UUID, lines ...shop.CartLine) shop.Order {
	t.Helper()

	ctx := context.Background()
	order := shop.NewPendingOrder(
		GivenUniqueID(t), shop.NewOrderNumber(), customerID, "221B Baker Street, London", "", time.Now().UTC(),
	)

	err := shop.InUnitOfWork(ctx, factory, func(uow shop.UnitOfWork) error {
		for _, line := range lines {
			item, err := uow.Catalog().GetItem(ctx, line.ItemID)
			if err != nil {
				return err
			}

			if _, err = uow.Stock().Reserve(ctx, line.ItemID, line.Quantity); err != nil {
				return err
			}

			order = order.WithLine(shop.OrderLine{
				ItemID:    item.ID,
				Title:     item.Title,
				Quantity:  line.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		order = order.WithComputedTotals()

		return uow.Orders().CreateOrder(ctx, order)
	})
	require.NoError(t, err, "error in arranging test data")

	return order
}

// GivenOrderInStatus walks a freshly placed order through the transition table up to status.
func GivenOrderInStatus(t testing.TB, factory shop.UnitOfWorkFactory, order shop.Order, status shop.OrderStatus) shop.Order {
	t.Helper()

	path := map[shop.OrderStatus][]shop.OrderStatus{
		shop.StatusPending:    {},
		shop.StatusProcessing: {shop.StatusProcessing},
		shop.StatusShipped:    {shop.StatusProcessing, shop.StatusShipped},
		shop.StatusDelivered:  {shop.StatusProcessing, shop.StatusShipped, shop.StatusDelivered},
	}

	steps, ok := path[status]
	require.True(t, ok, "no transition path to %s", status)

	ctx := context.Background()

	for _, next := range steps {
		changed, err := order.ApplyTransition(next, shop.EnvelopeUpdate{}, time.Now().UTC())
		require.NoError(t, err, "error in arranging test data")

		err = shop.InUnitOfWork(ctx, factory, func(uow shop.UnitOfWork) error {
			return uow.Orders().UpdateOrderEnvelope(ctx, changed, order.Version)
		})
		require.NoError(t, err, "error in arranging test data")

		order = changed
	}

	return order
}

// StockOf reads the committed quantity-on-hand through a throwaway unit of work.
func StockOf(t testing.TB, factory shop.UnitOfWorkFactory, itemID uuid.UUID) int {
	t.Helper()

	ctx := context.Background()
	uow, err := factory.BeginUnitOfWork(ctx)
	require.NoError(t, err)

	defer func() { _ = uow.Rollback(ctx) }()

	item, err := uow.Catalog().GetItem(ctx, itemID)
	require.NoError(t, err)

	return item.QuantityOnHand
}
