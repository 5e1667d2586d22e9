package cancelorder_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/cancelorder"
	"github.com/AntonStoeckl/checkout-engine-go/app/shared/shell"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
	. "github.com/AntonStoeckl/checkout-engine-go/testutil/helper" //nolint:revive
)

func Test_CommandHandler_Handle_OwnerCancelsProcessingOrder(t *testing.T) {
	// arrange
	ctx := context.Background()
	first := GivenCatalogItem(t, "The Phoenix Project", "19.99", 4)
	second := GivenCatalogItem(t, "The Unicorn Project", "21.99", 4)
	customer := GivenCustomer(t)
	engine := GivenMemoryEngine(t, []shop.CatalogItem{first, second}, customer)
	order := GivenPlacedOrder(t, engine, customer.UserID,
		shop.CartLine{ItemID: first.ID, Quantity: 3},
		shop.CartLine{ItemID: second.ID, Quantity: 1},
	)
	order = GivenOrderInStatus(t, engine, order, shop.StatusProcessing)
	handler := cancelorder.NewCommandHandler(engine)

	// act
	cancelled, result, err := handler.Handle(ctx, cancelorder.BuildCommand(order.ID, customer.UserID))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, shop.StatusCancelled, cancelled.Status)
	assert.Equal(t, 4, StockOf(t, engine, first.ID))
	assert.Equal(t, 4, StockOf(t, engine, second.ID))
}

func Test_CommandHandler_Handle_SecondCancelFailsAndRestoresNothing(t *testing.T) {
	// arrange
	ctx := context.Background()
	item := GivenCatalogItem(t, "Building Microservices", "44.00", 3)
	customer := GivenCustomer(t)
	engine := GivenMemoryEngine(t, []shop.CatalogItem{item}, customer)
	order := GivenPlacedOrder(t, engine, customer.UserID, shop.CartLine{ItemID: item.ID, Quantity: 2})
	handler := cancelorder.NewCommandHandler(engine)
	_, _, err := handler.Handle(ctx, cancelorder.BuildCommand(order.ID, customer.UserID))
	require.NoError(t, err)

	// act
	_, _, err = handler.Handle(ctx, cancelorder.BuildCommand(order.ID, customer.UserID))

	// assert
	assert.ErrorIs(t, err, shop.ErrBadRequest)
	assert.Equal(t, "Order cannot be cancelled. Current status: CANCELLED", shop.Reason(err))
	assert.Equal(t, 3, StockOf(t, engine, item.ID))
}

func Test_CommandHandler_Handle_ConcurrentCancelsRestoreOnce(t *testing.T) {
	// arrange
	ctx := context.Background()
	item := GivenCatalogItem(t, "Database Internals", "50.00", 6)
	customer := GivenCustomer(t)
	manager := GivenManager(t)
	engine := GivenMemoryEngine(t, []shop.CatalogItem{item}, customer, manager)
	order := GivenPlacedOrder(t, engine, customer.UserID, shop.CartLine{ItemID: item.ID, Quantity: 5})
	publisher := &publisherSpy{}
	handler := cancelorder.NewCommandHandler(engine, shell.WithEventPublisher(publisher))

	// act
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, actor := range []shop.Actor{customer, manager} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = handler.Handle(ctx, cancelorder.BuildCommand(order.ID, actor.UserID))
		}()
	}
	wg.Wait()

	// assert
	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
			assert.ErrorIs(t, err, shop.ErrBadRequest)
		}
	}

	assert.Equal(t, 1, failed)
	assert.Equal(t, 6, StockOf(t, engine, item.ID))
	assert.Len(t, publisher.snapshot(), 1)
}

func Test_CommandHandler_Handle_OtherCustomerIsForbidden(t *testing.T) {
	ctx := context.Background()
	item := GivenCatalogItem(t, "Clean Architecture", "33.00", 2)
	owner := GivenCustomer(t)
	stranger := GivenCustomer(t)
	engine := GivenMemoryEngine(t, []shop.CatalogItem{item}, owner, stranger)
	order := GivenPlacedOrder(t, engine, owner.UserID, shop.CartLine{ItemID: item.ID, Quantity: 2})

	_, _, err := cancelorder.NewCommandHandler(engine).Handle(ctx, cancelorder.BuildCommand(order.ID, stranger.UserID))

	assert.ErrorIs(t, err, shop.ErrForbidden)
	assert.Equal(t, 0, StockOf(t, engine, item.ID))
}

type publisherSpy struct {
	mu     sync.Mutex
	events []shop.OrderEvent
}

func (p *publisherSpy) Publish(_ context.Context, event shop.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return nil
}

func (p *publisherSpy) snapshot() []shop.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]shop.OrderEvent(nil), p.events...)
}
