package cancelorder

import (
	"context"

	"github.com/AntonStoeckl/checkout-engine-go/app/shared/shell"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// Store defines what the CommandHandler needs from the engine.
type Store interface {
	shop.UnitOfWorkFactory
	shop.IdentityResolver
}

// CommandHandler orchestrates the cancellation: Resolve → Load → Decide → Restore + Persist → Publish.
type CommandHandler struct {
	store Store
	deps  shell.HandlerDeps
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store, options ...shell.HandlerOption) CommandHandler {
	return CommandHandler{
		store: store,
		deps:  shell.BuildHandlerDeps(options...),
	}
}

// Handle cancels the order and returns it. Losing a race against another transition of the same order
// is retried; the retry then sees the new status and is decided again.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shop.Order, shell.HandlerResult, error) {
	actor, err := h.store.ResolveActor(ctx, command.RequestingUserID)
	if err != nil {
		return shop.Order{}, shell.HandlerResult{}, err
	}

	var before, after shop.Order

	retryMetrics, err := h.deps.Retry(ctx, func(retryCtx context.Context) error {
		var execErr error
		before, after, execErr = h.executeCommand(retryCtx, actor, command)

		return execErr
	})

	if err != nil {
		return shop.Order{}, shell.BuildHandlerResult(retryMetrics, false, err), err
	}

	h.deps.Publish(ctx, shop.OrderStatusChanged(after, before.Status))

	return after, shell.BuildHandlerResult(retryMetrics, false, nil), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, actor shop.Actor, command Command) (shop.Order, shop.Order, error) {
	var before, after shop.Order

	err := shop.InUnitOfWork(ctx, h.store, func(uow shop.UnitOfWork) error {
		var err error

		if before, err = uow.Orders().LoadOrder(ctx, command.OrderID); err != nil {
			return err
		}

		result := Decide(actor, before, h.deps.Now())
		if decisionErr := result.HasError(); decisionErr != nil {
			return decisionErr
		}

		after = result.Value

		return shop.StoreTransition(ctx, uow, before, after)
	})

	return before, after, err
}
