package addcartline

import (
	"context"

	"github.com/AntonStoeckl/checkout-engine-go/app/shared/shell"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// CommandHandler orchestrates the workflow: Load → Decide → Save.
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

// Handle adds the line and returns the updated cart.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shop.Cart, shell.HandlerResult, error) {
	var cart shop.Cart

	retryMetrics, err := h.deps.Retry(ctx, func(retryCtx context.Context) error {
		var execErr error
		cart, execErr = h.executeCommand(retryCtx, command)

		return execErr
	})

	return cart, shell.BuildHandlerResult(retryMetrics, false, err), err
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (shop.Cart, error) {
	var updated shop.Cart

	err := shop.InUnitOfWork(ctx, h.store, func(uow shop.UnitOfWork) error {
		cart, err := uow.Carts().LoadCartForUpdate(ctx, command.CustomerID)
		if err != nil {
			return err
		}

		item, err := uow.Catalog().GetItem(ctx, command.ItemID)
		if err != nil {
			return err
		}

		result := Decide(cart, item, command)
		if decisionErr := result.HasError(); decisionErr != nil {
			return decisionErr
		}

		updated = result.Value.Touch(h.deps.Now())

		return uow.Carts().SaveCart(ctx, updated)
	})

	return updated, err
}
