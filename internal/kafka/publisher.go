package kafka

import (
	"context"

	"bulk-order-api-server/internal/events"
)

// Publisher forwards every bulk-order event to a topic, keyed by order id so
// one order's events stay in partition order.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(writer messageWriter) *Publisher { return &Publisher{writer: writer} }

func (p *Publisher) Name() string { return "kafka" }

func (p *Publisher) Handle(ctx context.Context, evt events.Event) error {
	return PublishJSON(ctx, p.writer, evt.OrderID, evt)
}

var _ events.Handler = (*Publisher)(nil)
