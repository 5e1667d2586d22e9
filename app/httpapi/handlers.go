package httpapi

import (
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/addcartline"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/cancelorder"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/checkout"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/clearcart"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/removecartline"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/setcartlinequantity"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/updateorderstatus"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/query/cartview"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/query/orderbyid"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/query/orderbynumber"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/query/orderhistory"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/query/ordersbystatus"
	"github.com/AntonStoeckl/checkout-engine-go/app/shared/core"
	"github.com/AntonStoeckl/checkout-engine-go/app/shared/shell"
	"github.com/AntonStoeckl/checkout-engine-go/app/shared/shell/observable"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// Store is what the feature handlers behind the routes need from an engine.
type Store interface {
	shop.UnitOfWorkFactory
	shop.IdentityResolver
}

// Observability carries the optional collectors every handler is wrapped with.
type Observability struct {
	Metrics          shell.MetricsCollector
	Tracing          shell.TracingCollector
	ContextualLogger shell.ContextualLogger
	Logger           shell.Logger
}

// Handlers groups the feature handlers served by the router.
type Handlers struct {
	Checkout            shell.CommandHandler[checkout.Command, shop.Order]
	CancelOrder         shell.CommandHandler[cancelorder.Command, shop.Order]
	UpdateOrderStatus   shell.CommandHandler[updateorderstatus.Command, shop.Order]
	AddCartLine         shell.CommandHandler[addcartline.Command, shop.Cart]
	SetCartLineQuantity shell.CommandHandler[setcartlinequantity.Command, shop.Cart]
	RemoveCartLine      shell.CommandHandler[removecartline.Command, shop.Cart]
	ClearCart           shell.CommandHandler[clearcart.Command, shop.Cart]

	CartView       shell.QueryHandler[cartview.Query, cartview.CartView]
	OrderByID      shell.QueryHandler[orderbyid.Query, core.OrderView]
	OrderByNumber  shell.QueryHandler[orderbynumber.Query, core.OrderView]
	OrderHistory   shell.QueryHandler[orderhistory.Query, orderhistory.OrderHistory]
	OrdersByStatus shell.QueryHandler[ordersbystatus.Query, ordersbystatus.OrdersByStatus]
}

// BuildHandlers creates every feature handler on top of store and wraps it with obs.
// The handler options (retry, publisher, logger, clock) apply to all command handlers.
func BuildHandlers(store Store, obs Observability, options ...shell.HandlerOption) (Handlers, error) {
	var (
		handlers Handlers
		err      error
	)

	if handlers.Checkout, err = wrapCommand[checkout.Command, shop.Order](checkout.NewCommandHandler(store, options...), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.CancelOrder, err = wrapCommand[cancelorder.Command, shop.Order](cancelorder.NewCommandHandler(store, options...), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.UpdateOrderStatus, err = wrapCommand[updateorderstatus.Command, shop.Order](updateorderstatus.NewCommandHandler(store, options...), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.AddCartLine, err = wrapCommand[addcartline.Command, shop.Cart](addcartline.NewCommandHandler(store, options...), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.SetCartLineQuantity, err = wrapCommand[setcartlinequantity.Command, shop.Cart](setcartlinequantity.NewCommandHandler(store, options...), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.RemoveCartLine, err = wrapCommand[removecartline.Command, shop.Cart](removecartline.NewCommandHandler(store, options...), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.ClearCart, err = wrapCommand[clearcart.Command, shop.Cart](clearcart.NewCommandHandler(store, options...), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.CartView, err = wrapQuery[cartview.Query, cartview.CartView](cartview.NewQueryHandler(store), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.OrderByID, err = wrapQuery[orderbyid.Query, core.OrderView](orderbyid.NewQueryHandler(store), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.OrderByNumber, err = wrapQuery[orderbynumber.Query, core.OrderView](orderbynumber.NewQueryHandler(store), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.OrderHistory, err = wrapQuery[orderhistory.Query, orderhistory.OrderHistory](orderhistory.NewQueryHandler(store), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.OrdersByStatus, err = wrapQuery[ordersbystatus.Query, ordersbystatus.OrdersByStatus](ordersbystatus.NewQueryHandler(store), obs); err != nil {
		return Handlers{}, err
	}

	return handlers, nil
}

func wrapCommand[C shell.Command, R any](
	handler shell.CommandHandler[C, R],
	obs Observability,
) (shell.CommandHandler[C, R], error) {
	wrapper, err := observable.NewCommandWrapper(
		handler,
		observable.WithCommandMetrics[C, R](obs.Metrics),
		observable.WithCommandTracing[C, R](obs.Tracing),
		observable.WithCommandContextualLogging[C, R](obs.ContextualLogger),
		observable.WithCommandLogging[C, R](obs.Logger),
	)
	if err != nil {
		return nil, err
	}

	return wrapper, nil
}

func wrapQuery[Q shell.Query, R any](
	handler shell.QueryHandler[Q, R],
	obs Observability,
) (shell.QueryHandler[Q, R], error) {
	wrapper, err := observable.NewQueryWrapper(
		handler,
		observable.WithQueryMetrics[Q, R](obs.Metrics),
		observable.WithQueryTracing[Q, R](obs.Tracing),
		observable.WithQueryContextualLogging[Q, R](obs.ContextualLogger),
		observable.WithQueryLogging[Q, R](obs.Logger),
	)
	if err != nil {
		return nil, err
	}

	return wrapper, nil
}
