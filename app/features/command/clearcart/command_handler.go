package clearcart

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

// Handle empties the cart and returns it.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shop.Cart, shell.HandlerResult, error) {
	var cart shop.Cart
	var isIdempotent bool

	retryMetrics, err := h.deps.Retry(ctx, func(retryCtx context.Context) error {
		var execErr error
		cart, isIdempotent, execErr = h.executeCommand(retryCtx, command)

		return execErr
	})

	return cart, shell.BuildHandlerResult(retryMetrics, isIdempotent, err), err
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (shop.Cart, bool, error) {
	var resulting shop.Cart
	var isIdempotent bool

	err := shop.InUnitOfWork(ctx, h.store, func(uow shop.UnitOfWork) error {
		cart, err := uow.Carts().LoadCartForUpdate(ctx, command.CustomerID)
		if err != nil {
			return err
		}

		result := Decide(cart)
		if result.IsIdempotent() {
			resulting, isIdempotent = cart, true
			return nil
		}

		resulting = result.Value.Touch(h.deps.Now())

		return uow.Carts().SaveCart(ctx, resulting)
	})

	return resulting, isIdempotent, err
}
