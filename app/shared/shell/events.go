package shell

import (
	"context"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// PublishCommitted hands committed order events to publisher. Failures are logged and swallowed:
// the change they describe is already durable and must not be reported as failed.
func PublishCommitted(
	ctx context.Context,
	publisher shop.OrderEventPublisher,
	logger Logger,
	events ...shop.OrderEvent,
) {
	if publisher == nil {
		return
	}

	for _, event := range events {
		if err := publisher.Publish(ctx, event); err != nil && logger != nil {
			logger.Warn(LogMsgPublishFailed,
				LogAttrEventType, string(event.Type),
				LogAttrOrderNumber, event.OrderNumber,
				LogAttrError, err.Error(),
			)
		}
	}
}
