// Package kafkapublisher publishes order lifecycle notifications to a Kafka topic.
//
// Messages are JSON, keyed by order ID so that all notifications of one order land on the same partition
// in the order they were produced. The trace context of the publishing request travels in the message headers.
package kafkapublisher

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// ErrPublishingFailed wraps every failure to hand a message to the broker.
var ErrPublishingFailed = errors.New("publishing the order event failed")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Producer is the slice of *kafka.Writer the publisher needs.
type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Message is the wire format of an order notification.
type Message struct {
	Type           string `json:"type"`
	OrderID        string `json:"orderId"`
	OrderNumber    string `json:"orderNumber"`
	CustomerID     string `json:"customerId"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previousStatus,omitempty"`
	Total          string `json:"total"`
	OccurredAt     string `json:"occurredAt"`
}

// Publisher implements shop.OrderEventPublisher.
type Publisher struct {
	producer   Producer
	propagator propagation.TextMapPropagator
	logger     shop.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger logs every published message at debug level.
func WithLogger(logger shop.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithPropagator overrides the global OpenTelemetry propagator.
func WithPropagator(propagator propagation.TextMapPropagator) Option {
	return func(p *Publisher) {
		p.propagator = propagator
	}
}

// New creates a publisher on top of producer.
func New(producer Producer, opts ...Option) *Publisher {
	p := &Publisher{
		producer:   producer,
		propagator: otel.GetTextMapPropagator(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// NewWriter builds the kafka-go writer for topic on the given brokers.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

// Publish writes event synchronously.
func (p *Publisher) Publish(ctx context.Context, event shop.OrderEvent) error {
	payload, err := json.Marshal(toMessage(event))
	if err != nil {
		return errors.Join(ErrPublishingFailed, err)
	}

	msg := kafka.Message{
		Key:     []byte(event.OrderID.String()),
		Value:   payload,
		Headers: p.traceHeaders(ctx, event.Type),
	}

	if err = p.producer.WriteMessages(ctx, msg); err != nil {
		return errors.Join(ErrPublishingFailed, err)
	}

	if p.logger != nil {
		p.logger.Debug("published order event",
			"event_type", string(event.Type),
			"order_number", event.OrderNumber,
			"status", event.Status.String(),
		)
	}

	return nil
}

// Close closes the underlying producer.
func (p *Publisher) Close() error {
	return p.producer.Close()
}

func (p *Publisher) traceHeaders(ctx context.Context, eventType shop.OrderEventType) []kafka.Header {
	carrier := propagation.MapCarrier{}
	p.propagator.Inject(ctx, carrier)

	headers := make([]kafka.Header, 0, len(carrier)+1)
	headers = append(headers, kafka.Header{Key: "event_type", Value: []byte(eventType)})

	for _, key := range carrier.Keys() {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(carrier.Get(key))})
	}

	return headers
}

func toMessage(event shop.OrderEvent) Message {
	msg := Message{
		Type:        string(event.Type),
		OrderID:     event.OrderID.String(),
		OrderNumber: event.OrderNumber,
		CustomerID:  event.CustomerID.String(),
		Status:      event.Status.String(),
		Total:       event.Total.StringFixed(2),
		OccurredAt:  event.OccurredAt.UTC().Format(time.RFC3339Nano),
	}

	if event.PreviousStatus != "" {
		msg.PreviousStatus = event.PreviousStatus.String()
	}

	return msg
}

var _ shop.OrderEventPublisher = (*Publisher)(nil)
