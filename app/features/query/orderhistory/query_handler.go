package orderhistory

import (
	"context"

	"github.com/AntonStoeckl/checkout-engine-go/app/shared/core"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// QueryHandler lists the orders of the requesting customer.
type QueryHandler struct {
	store shop.UnitOfWorkFactory
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store shop.UnitOfWorkFactory) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the requested page.
func (h QueryHandler) Handle(ctx context.Context, query Query) (OrderHistory, error) {
	var orders []shop.Order

	err := shop.ReadInUnitOfWork(ctx, h.store, func(uow shop.UnitOfWork) error {
		var listErr error
		orders, listErr = uow.Orders().ListOrdersByCustomer(ctx, query.CustomerID, query.Page)

		return listErr
	})
	if err != nil {
		return OrderHistory{}, err
	}

	return OrderHistory{
		CustomerID: query.CustomerID.String(),
		Orders:     core.ProjectOrders(orders),
		Count:      len(orders),
		Limit:      query.Page.Limit,
		Offset:     query.Page.Offset,
	}, nil
}
