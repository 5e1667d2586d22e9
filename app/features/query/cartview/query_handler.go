package cartview

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// QueryHandler loads the cart and its items and delegates to Project.
type QueryHandler struct {
	store shop.UnitOfWorkFactory
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store shop.UnitOfWorkFactory) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the customer's cart view.
func (h QueryHandler) Handle(ctx context.Context, query Query) (CartView, error) {
	var view CartView

	err := shop.InUnitOfWork(ctx, h.store, func(uow shop.UnitOfWork) error {
		cart, err := uow.Carts().LoadCartForUpdate(ctx, query.CustomerID)
		if err != nil {
			return err
		}

		items := make(map[uuid.UUID]shop.CatalogItem, len(cart.Lines))
		for _, line := range cart.Lines {
			item, getErr := uow.Catalog().GetItem(ctx, line.ItemID)
			if getErr != nil {
				return getErr
			}

			items[item.ID] = item
		}

		view = Project(cart, items)

		return nil
	})

	return view, err
}
