package reservestock

import (
	"context"

	"github.com/AntonStoeckl/checkout-engine-go/app/shared/shell"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// CommandHandler runs a single ledger call in its own unit of work.
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

// Handle returns the committed quantity-on-hand after the change.
func (h CommandHandler) Handle(ctx context.Context, command Command) (int, shell.HandlerResult, error) {
	var newQuantity int

	retryMetrics, err := h.deps.Retry(ctx, func(retryCtx context.Context) error {
		return shop.InUnitOfWork(retryCtx, h.store, func(uow shop.UnitOfWork) error {
			var ledgerErr error
			newQuantity, ledgerErr = uow.Stock().Reserve(retryCtx, command.ItemID, command.Quantity)

			return ledgerErr
		})
	})

	if err != nil {
		return 0, shell.BuildHandlerResult(retryMetrics, false, err), err
	}

	return newQuantity, shell.BuildHandlerResult(retryMetrics, false, nil), nil
}
