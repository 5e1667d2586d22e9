package orderbyid

import (
	"context"

	"github.com/AntonStoeckl/checkout-engine-go/app/shared/core"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// Store defines what the QueryHandler needs from the engine.
type Store interface {
	shop.UnitOfWorkFactory
	shop.IdentityResolver
}

// QueryHandler loads the order and checks that the user may see it.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the order's read model.
func (h QueryHandler) Handle(ctx context.Context, query Query) (core.OrderView, error) {
	actor, err := h.store.ResolveActor(ctx, query.UserID)
	if err != nil {
		return core.OrderView{}, err
	}

	var order shop.Order

	err = shop.ReadInUnitOfWork(ctx, h.store, func(uow shop.UnitOfWork) error {
		var loadErr error
		order, loadErr = uow.Orders().LoadOrder(ctx, query.OrderID)

		return loadErr
	})
	if err != nil {
		return core.OrderView{}, err
	}

	if !actor.MayActOnBehalfOf(order.CustomerID) {
		return core.OrderView{}, shop.NewForbiddenError("You are not authorized to view this order")
	}

	return core.ProjectOrder(order), nil
}
