package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bulk-order-api-server/internal/logging"
)

// Handler consumes published events. Handlers fail independently of each
// other and of the write that produced the event.
type Handler interface {
	Name() string
	Handle(ctx context.Context, evt Event) error
}

// HandlerFunc adapts a function into a named Handler.
type HandlerFunc struct {
	HandlerName string
	Fn          func(ctx context.Context, evt Event) error
}

func (h HandlerFunc) Name() string { return h.HandlerName }

func (h HandlerFunc) Handle(ctx context.Context, evt Event) error { return h.Fn(ctx, evt) }

// FailureObserver is notified whenever a handler returns an error or panics.
type FailureObserver interface {
	ObserveHandlerFailure(handler string)
}

type Dispatcher struct {
	mu       sync.RWMutex
	handlers []Handler
	timeout  time.Duration
	failures FailureObserver
}

func NewDispatcher(timeout time.Duration, failures FailureObserver) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{timeout: timeout, failures: failures}
}

func (d *Dispatcher) Subscribe(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

// Publish delivers evt to every subscribed handler in order. Each handler runs
// under its own timeout on a context that ignores the caller's cancellation, so
// a client hanging up does not abort delivery. Errors and panics are logged and
// counted; Publish itself never fails.
func (d *Dispatcher) Publish(ctx context.Context, evt Event) {
	d.mu.RLock()
	handlers := make([]Handler, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	base := context.WithoutCancel(ctx)
	for _, h := range handlers {
		if err := d.deliver(base, h, evt); err != nil {
			if d.failures != nil {
				d.failures.ObserveHandlerFailure(h.Name())
			}
			logging.Error(logging.Fields{
				Component: "events",
				Event:     evt.Type,
				EventID:   evt.ID,
				OrderID:   evt.OrderID,
				Reference: evt.Reference,
				Status:    string(evt.Status),
				Message:   "event handler " + h.Name() + " failed",
			}, err)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, h Handler, evt Event) (err error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Handle(ctx, evt)
}
