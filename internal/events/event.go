package events

import (
	"time"

	"bulk-order-api-server/internal/models"

	"github.com/google/uuid"
)

const (
	TypeOrderCreated  = "bulkorder.created"
	TypeStatusChanged = "bulkorder.status_changed"
	TypeOrderDeleted  = "bulkorder.deleted"
)

// Event is the fact published after a bulk order write has been committed.
type Event struct {
	ID              string             `json:"event_id"`
	Type            string             `json:"type"`
	OrderID         string             `json:"order_id"`
	Reference       string             `json:"reference"`
	UserID          string             `json:"user_id"`
	Status          models.OrderStatus `json:"status"`
	PreviousStatus  models.OrderStatus `json:"previous_status,omitempty"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	BuyerType       models.BuyerType   `json:"buyer_type,omitempty"`
	TotalQuantity   int                `json:"total_quantity"`
	AdminNotes      string             `json:"admin_notes,omitempty"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	OccurredAt      time.Time          `json:"occurred_at"`
}

// New builds an event of the given type from the order's current state.
func New(eventType string, order *models.BulkOrder, previous models.OrderStatus, at time.Time) Event {
	return Event{
		ID:              uuid.NewString(),
		Type:            eventType,
		OrderID:         order.ID.Hex(),
		Reference:       order.Reference,
		UserID:          order.User.Hex(),
		Status:          order.Status,
		PreviousStatus:  previous,
		Name:            order.Name,
		Email:           order.Email,
		BuyerType:       order.BuyerType,
		TotalQuantity:   order.TotalQuantity,
		AdminNotes:      order.AdminNotes,
		RejectionReason: order.RejectionReason,
		OccurredAt:      at.UTC(),
	}
}
