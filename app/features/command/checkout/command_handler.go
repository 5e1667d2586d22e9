package checkout

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/checkout-engine-go/app/shared/shell"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// CommandHandler orchestrates the checkout: Load → Decide → Reserve → Persist → Publish.
// All observability concerns are handled by the external observable wrapper.
type CommandHandler struct {
	store shop.UnitOfWorkFactory
	deps  shell.HandlerDeps
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store shop.UnitOfWorkFactory, options ...shell.HandlerOption) CommandHandler {
	return CommandHandler{
		store: store,
		deps:  shell.BuildHandlerDeps(options...),
	}
}

// Handle places the order. A clash on the generated order number rolls the unit back and is retried
// with a fresh number.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shop.Order, shell.HandlerResult, error) {
	var placed shop.Order

	retryMetrics, err := h.deps.Retry(ctx, func(retryCtx context.Context) error {
		order, execErr := h.executeCommand(retryCtx, command)
		placed = order

		return execErr
	})

	if err != nil {
		return shop.Order{}, shell.BuildHandlerResult(retryMetrics, false, err), err
	}

	h.deps.Publish(ctx, shop.OrderPlaced(placed))

	return placed, shell.BuildHandlerResult(retryMetrics, false, nil), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (shop.Order, error) {
	var order shop.Order

	err := shop.InUnitOfWork(ctx, h.store, func(uow shop.UnitOfWork) error {
		cart, err := uow.Carts().LoadCartForUpdate(ctx, command.CustomerID)
		if err != nil {
			return err
		}

		items, err := loadCartItems(ctx, uow.Catalog(), cart)
		if err != nil {
			return err
		}

		result := Decide(cart, items, command)
		if decisionErr := result.HasError(); decisionErr != nil {
			return decisionErr
		}

		now := h.deps.Now()
		order = shop.NewPendingOrder(uuid.New(), shop.NewOrderNumber(), command.CustomerID, command.ShippingAddress, command.Notes, now)

		for _, line := range result.Value {
			if _, err = uow.Stock().Reserve(ctx, line.ItemID, line.Quantity); err != nil {
				return err
			}

			order = order.WithLine(line)
		}

		order = order.WithComputedTotals()

		if err = uow.Orders().CreateOrder(ctx, order); err != nil {
			return err
		}

		return uow.Carts().SaveCart(ctx, cart.Clear().Touch(now))
	})

	return order, err
}

func loadCartItems(ctx context.Context, catalog shop.Catalog, cart shop.Cart) (map[uuid.UUID]shop.CatalogItem, error) {
	items := make(map[uuid.UUID]shop.CatalogItem, len(cart.Lines))

	for _, line := range cart.Lines {
		item, err := catalog.GetItem(ctx, line.ItemID)
		if err != nil {
			return nil, err
		}

		items[item.ID] = item
	}

	return items, nil
}
