package ordersbystatus

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

// QueryHandler lists orders by status for staff.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the requested page.
func (h QueryHandler) Handle(ctx context.Context, query Query) (OrdersByStatus, error) {
	actor, err := h.store.ResolveActor(ctx, query.ActorID)
	if err != nil {
		return OrdersByStatus{}, err
	}

	if !actor.IsStaff() {
		return OrdersByStatus{}, shop.NewForbiddenError("You are not authorized to list orders by status")
	}

	var orders []shop.Order

	err = shop.ReadInUnitOfWork(ctx, h.store, func(uow shop.UnitOfWork) error {
		var listErr error
		orders, listErr = uow.Orders().ListOrdersByStatus(ctx, query.Status, query.Page)

		return listErr
	})
	if err != nil {
		return OrdersByStatus{}, err
	}

	return OrdersByStatus{
		Status: query.Status.String(),
		Orders: core.ProjectOrders(orders),
		Count:  len(orders),
		Limit:  query.Page.Limit,
		Offset: query.Page.Offset,
	}, nil
}
