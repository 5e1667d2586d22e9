package checkout_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/checkout"
	"github.com/AntonStoeckl/checkout-engine-go/app/shared/shell"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
	. "github.com/AntonStoeckl/checkout-engine-go/testutil/helper" //nolint:revive
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	ctx := context.Background()
	item := GivenCatalogItem(t, "Clean Code", "20.00", 10)
	customer := GivenCustomer(t)
	engine := GivenMemoryEngine(t, []shop.CatalogItem{item}, customer)
	GivenCartWith(t, engine, customer.UserID, shop.CartLine{ItemID: item.ID, Quantity: 2})
	publisher := &publisherSpy{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	handler := checkout.NewCommandHandler(engine,
		shell.WithEventPublisher(publisher),
		shell.WithHandlerClock(FixedClock(now)),
	)

	// act
	order, result, err := handler.Handle(ctx, checkout.BuildCommand(customer.UserID, "1 Main St", "leave at the door"))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, 1, result.RetryAttempts)

	assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, order.Number)
	assert.Equal(t, shop.StatusPending, order.Status)
	assert.Equal(t, shop.PaymentMethodCashOnDelivery, order.PaymentMethod)
	assert.Equal(t, "leave at the door", order.Notes)
	assert.Equal(t, now, order.CreatedAt)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "Clean Code", order.Lines[0].Title)
	assert.True(t, Money(t, "40.00").Equal(order.Totals.Subtotal))
	assert.True(t, Money(t, "3.20").Equal(order.Totals.Tax))
	assert.True(t, Money(t, "5.99").Equal(order.Totals.Shipping))
	assert.True(t, Money(t, "49.19").Equal(order.Totals.Total))

	assert.Equal(t, 8, StockOf(t, engine, item.ID))
	assertCartIsEmpty(t, engine, customer.UserID)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, shop.OrderPlacedEventType, publisher.events[0].Type)
	assert.Equal(t, order.Number, publisher.events[0].OrderNumber)
}

func Test_CommandHandler_Handle_EmptyCart_CreatesNoOrder(t *testing.T) {
	// arrange
	ctx := context.Background()
	customer := GivenCustomer(t)
	engine := GivenMemoryEngine(t, nil, customer)
	publisher := &publisherSpy{}
	handler := checkout.NewCommandHandler(engine, shell.WithEventPublisher(publisher))

	// act
	_, _, err := handler.Handle(ctx, checkout.BuildCommand(customer.UserID, "1 Main St", ""))

	// assert
	assert.ErrorIs(t, err, shop.ErrBadRequest)
	assertNoOrders(t, engine, customer.UserID)
	assert.Empty(t, publisher.events)
}

func Test_CommandHandler_Handle_Shortfall_LeavesStockAndCartUnchanged(t *testing.T) {
	// arrange
	ctx := context.Background()
	plenty := GivenCatalogItem(t, "The Pragmatic Programmer", "35.00", 10)
	scarce := GivenCatalogItem(t, "Working Effectively with Legacy Code", "45.00", 2)
	customer := GivenCustomer(t)
	other := GivenCustomer(t)
	engine := GivenMemoryEngine(t, []shop.CatalogItem{plenty, scarce}, customer, other)
	GivenCartWith(t, engine, customer.UserID,
		shop.CartLine{ItemID: plenty.ID, Quantity: 3},
		shop.CartLine{ItemID: scarce.ID, Quantity: 2},
	)
	GivenPlacedOrder(t, engine, other.UserID, shop.CartLine{ItemID: scarce.ID, Quantity: 1})
	handler := checkout.NewCommandHandler(engine)

	// act
	_, _, err := handler.Handle(ctx, checkout.BuildCommand(customer.UserID, "1 Main St", ""))

	// assert
	var stockErr *shop.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, scarce.ID, stockErr.ItemID)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 2, stockErr.Requested)

	assert.Equal(t, 10, StockOf(t, engine, plenty.ID))
	assert.Equal(t, 1, StockOf(t, engine, scarce.ID))
	assertNoOrders(t, engine, customer.UserID)
	assertCartHoldsItems(t, engine, customer.UserID, 5)
}

func Test_CommandHandler_Handle_ReservationLostToRace_RollsBackEarlierReservations(t *testing.T) {
	// arrange
	ctx := context.Background()
	first := GivenCatalogItem(t, "Refactoring", "30.00", 5)
	second := GivenCatalogItem(t, "Domain-Driven Design", "50.00", 4)
	customer := GivenCustomer(t)
	other := GivenCustomer(t)
	engine := GivenMemoryEngine(t, []shop.CatalogItem{first, second}, customer, other)
	GivenCartWith(t, engine, customer.UserID,
		shop.CartLine{ItemID: first.ID, Quantity: 3},
		shop.CartLine{ItemID: second.ID, Quantity: 3},
	)
	racing := &racingFactory{
		UnitOfWorkFactory: engine,
		contested:         second.ID,
		race: func() {
			GivenPlacedOrder(t, engine, other.UserID, shop.CartLine{ItemID: second.ID, Quantity: 3})
		},
	}
	handler := checkout.NewCommandHandler(racing)

	// act
	_, _, err := handler.Handle(ctx, checkout.BuildCommand(customer.UserID, "1 Main St", ""))

	// assert
	var stockErr *shop.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, second.ID, stockErr.ItemID)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)

	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, racing.reserved, "first line must be reserved before the race")
	assert.Equal(t, 5, StockOf(t, engine, first.ID))
	assert.Equal(t, 1, StockOf(t, engine, second.ID))
	assertNoOrders(t, engine, customer.UserID)
	assertCartHoldsItems(t, engine, customer.UserID, 6)
}

func Test_CommandHandler_Handle_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	// arrange
	ctx := context.Background()
	item := GivenCatalogItem(t, "Release It!", "30.00", 3)
	alice := GivenCustomer(t)
	bob := GivenCustomer(t)
	engine := GivenMemoryEngine(t, []shop.CatalogItem{item}, alice, bob)
	GivenCartWith(t, engine, alice.UserID, shop.CartLine{ItemID: item.ID, Quantity: 2})
	GivenCartWith(t, engine, bob.UserID, shop.CartLine{ItemID: item.ID, Quantity: 2})
	handler := checkout.NewCommandHandler(engine)

	// act
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, customer := range []shop.Actor{alice, bob} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = handler.Handle(ctx, checkout.BuildCommand(customer.UserID, "1 Main St", ""))
		}()
	}
	wg.Wait()

	// assert
	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			assert.ErrorIs(t, err, shop.ErrInsufficientStock)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, StockOf(t, engine, item.ID))
}

func Test_CommandHandler_Handle_PublishFailureDoesNotFailCheckout(t *testing.T) {
	// arrange
	ctx := context.Background()
	item := GivenCatalogItem(t, "Accelerate", "25.00", 1)
	customer := GivenCustomer(t)
	engine := GivenMemoryEngine(t, []shop.CatalogItem{item}, customer)
	GivenCartWith(t, engine, customer.UserID, shop.CartLine{ItemID: item.ID, Quantity: 1})
	logHandler := NewLogHandlerSpy(false)
	handler := checkout.NewCommandHandler(engine,
		shell.WithEventPublisher(&publisherSpy{err: errors.New("broker unavailable")}),
		shell.WithHandlerLogger(slog.New(logHandler)),
	)

	// act
	order, _, err := handler.Handle(ctx, checkout.BuildCommand(customer.UserID, "1 Main St", ""))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 0, StockOf(t, engine, item.ID))
	assert.True(t,
		logHandler.HasWarnLogWithMessage(shell.LogMsgPublishFailed).
			WithAttrValue(shell.LogAttrOrderNumber, order.Number).
			Assert(),
	)
}

type publisherSpy struct {
	mu     sync.Mutex
	events []shop.OrderEvent
	err    error
}

func (p *publisherSpy) Publish(_ context.Context, event shop.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return p.err
}

func assertNoOrders(t *testing.T, factory shop.UnitOfWorkFactory, customerID uuid.UUID) {
	t.Helper()

	ctx := context.Background()
	uow, err := factory.BeginUnitOfWork(ctx)
	require.NoError(t, err)
	defer func() { _ = uow.Rollback(ctx) }()

	orders, err := uow.Orders().ListOrdersByCustomer(ctx, customerID, shop.Page{})
	require.NoError(t, err)
	assert.Empty(t, orders, "no order must be created")
}

func assertCartIsEmpty(t *testing.T, factory shop.UnitOfWorkFactory, customerID uuid.UUID) {
	t.Helper()
	assertCartHoldsItems(t, factory, customerID, 0)
}

func assertCartHoldsItems(t *testing.T, factory shop.UnitOfWorkFactory, customerID uuid.UUID, expected int) {
	t.Helper()

	ctx := context.Background()
	uow, err := factory.BeginUnitOfWork(ctx)
	require.NoError(t, err)
	defer func() { _ = uow.Rollback(ctx) }()

	cart, err := uow.Carts().LoadCartForUpdate(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, expected, cart.TotalItems())
}

// racingFactory lets another order take the contested item's stock right before the
// unit of work under test reserves it.
type racingFactory struct {
	shop.UnitOfWorkFactory
	contested uuid.UUID
	race      func()
	raced     bool
	reserved  []uuid.UUID
}

func (f *racingFactory) BeginUnitOfWork(ctx context.Context) (shop.UnitOfWork, error) {
	uow, err := f.UnitOfWorkFactory.BeginUnitOfWork(ctx)
	if err != nil {
		return nil, err
	}

	return racingUnitOfWork{UnitOfWork: uow, factory: f}, nil
}

type racingUnitOfWork struct {
	shop.UnitOfWork
	factory *racingFactory
}

func (u racingUnitOfWork) Stock() shop.StockLedger {
	return racingLedger{StockLedger: u.UnitOfWork.Stock(), factory: u.factory}
}

type racingLedger struct {
	shop.StockLedger
	factory *racingFactory
}

func (l racingLedger) Reserve(ctx context.Context, itemID uuid.UUID, quantity int) (int, error) {
	l.factory.reserved = append(l.factory.reserved, itemID)

	if itemID == l.factory.contested && !l.factory.raced {
		l.factory.raced = true
		l.factory.race()
	}

	return l.StockLedger.Reserve(ctx, itemID, quantity)
}
