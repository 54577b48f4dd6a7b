package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"bulk-order-api-server/internal/events"
	"bulk-order-api-server/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs []kafka.Message
}

func (w *captureWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestNewClientSplitsBrokers(t *testing.T) {
	c := NewClient([]string{"a:9092, b:9092", "", " c:9092 "})
	assert.Equal(t, []string{"a:9092", "b:9092", "c:9092"}, c.Brokers)
	assert.True(t, c.Enabled())
	assert.False(t, NewClient(nil).Enabled())
}

func TestPublisherKeysByOrder(t *testing.T) {
	w := &captureWriter{}
	p := NewPublisher(w)

	evt := events.Event{ID: "e1", Type: events.TypeStatusChanged, OrderID: "order-1", Status: models.StatusApproved}
	require.NoError(t, p.Handle(context.Background(), evt))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "order-1", string(w.msgs[0].Key))
	var decoded events.Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, evt.ID, decoded.ID)
	assert.Equal(t, models.StatusApproved, decoded.Status)
}

// scriptedReader serves queued messages, then blocks until ctx is done.
type scriptedReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *scriptedReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *scriptedReader) committedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func encode(t *testing.T, evt events.Event) kafka.Message {
	t.Helper()
	data, err := json.Marshal(evt)
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func TestConsumerDeliversAndCommits(t *testing.T) {
	reader := &scriptedReader{queue: []kafka.Message{
		encode(t, events.Event{ID: "e1", Type: events.TypeStatusChanged}),
		{Value: []byte("not json")},
		encode(t, events.Event{Type: events.TypeStatusChanged}),
		encode(t, events.Event{ID: "e2", Type: events.TypeStatusChanged}),
	}}

	var mu sync.Mutex
	var handled []string
	handler := events.HandlerFunc{HandlerName: "email", Fn: func(ctx context.Context, evt events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		handled = append(handled, evt.ID)
		if evt.ID == "e1" {
			return errors.New("smtp down")
		}
		return nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewConsumer(reader, handler, time.Second).Run(ctx) }()

	require.Eventually(t, func() bool { return reader.committedCount() == 4 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"e1", "e2"}, handled, "undecodable and id-less messages are skipped")
}
