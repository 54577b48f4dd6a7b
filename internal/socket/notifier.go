package socket

import (
	"context"
	"encoding/json"

	"bulk-order-api-server/internal/events"
)

// Message is the frame pushed to browser clients.
type Message struct {
	Event string       `json:"event"`
	Order events.Event `json:"order"`
}

// Notifier pushes bulk-order events to connected clients: status changes to
// the order's owner, and every event to connected administrators. Each
// connection receives a given event at most once.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier { return &Notifier{hub: hub} }

func (n *Notifier) Name() string { return "websocket" }

func (n *Notifier) Handle(ctx context.Context, evt events.Event) error {
	payload, err := json.Marshal(Message{Event: evt.Type, Order: evt})
	if err != nil {
		return err
	}

	if evt.Type == events.TypeStatusChanged {
		if err := n.hub.Send(ctx, evt.UserID, payload); err != nil {
			return err
		}
		return n.hub.SendToAdmins(ctx, payload, evt.UserID)
	}
	return n.hub.SendToAdmins(ctx, payload)
}

var _ events.Handler = (*Notifier)(nil)
