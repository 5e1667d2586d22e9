// Package observable wraps command and query handlers with metrics, tracing and logging.
//
// The wrappers are generic over the command or query type and read the type label from the zero value,
// so a feature slice only needs to implement the bare handler:
//
//	handler, err := observable.NewCommandWrapper[checkout.Command, shop.Order](
//		checkout.NewCommandHandler(engine, engine),
//		observable.WithCommandMetrics[checkout.Command, shop.Order](metrics),
//		observable.WithCommandLogging[checkout.Command, shop.Order](logger),
//	)
//
// Commands report success, idempotent, rejected, canceled, timeout, concurrency_conflict and error.
// Queries report success, rejected, canceled, timeout and error.
package observable
