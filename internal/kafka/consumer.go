package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bulk-order-api-server/internal/events"
	"bulk-order-api-server/internal/logging"

	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Consumer feeds events read from Kafka into a handler. Messages are committed
// after the handler returns, whether or not it succeeded; a failed delivery is
// logged and skipped so one bad message cannot stall the partition.
type Consumer struct {
	reader  messageReader
	handler events.Handler
	timeout time.Duration
	backoff time.Duration
}

func NewConsumer(reader messageReader, handler events.Handler, timeout time.Duration) *Consumer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Consumer{reader: reader, handler: handler, timeout: timeout, backoff: 2 * time.Second}
}

// Run reads until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.Error(logging.Fields{Component: "kafka-consumer", Message: "read failed"}, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff):
			}
			continue
		}

		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil && !errors.Is(err, context.Canceled) {
			logging.Error(logging.Fields{Component: "kafka-consumer", Message: "commit failed"}, err)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	var evt events.Event
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		logging.Error(logging.Fields{Component: "kafka-consumer", Message: "event decode failed"}, err)
		return
	}
	if evt.ID == "" {
		return
	}

	hctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	fields := logging.Fields{
		Component: "kafka-consumer",
		Event:     evt.Type,
		EventID:   evt.ID,
		OrderID:   evt.OrderID,
		Reference: evt.Reference,
		Status:    string(evt.Status),
	}
	if err := c.handler.Handle(hctx, evt); err != nil {
		fields.Message = c.handler.Name() + " failed"
		logging.Error(fields, err)
		return
	}
	fields.Message = "handled by " + c.handler.Name()
	logging.Log(fields)
}
