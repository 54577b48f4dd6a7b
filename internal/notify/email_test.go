package notify

import (
	"context"
	"errors"
	"testing"

	"bulk-order-api-server/internal/events"
	"bulk-order-api-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	sent []Message
	err  error
}

func (s *captureSender) Send(ctx context.Context, msg Message) error {
	s.sent = append(s.sent, msg)
	return s.err
}

func statusEvent(status models.OrderStatus) events.Event {
	return events.Event{
		Type:      events.TypeStatusChanged,
		OrderID:   "665f1c2ab3e4d5f6a7b8c9d0",
		Reference: "BO-1A2B3C4D",
		Status:    status,
		Name:      "Jane <Doe>",
		Email:     "jane@example.com",
	}
}

func TestComposeApproved(t *testing.T) {
	evt := statusEvent(models.StatusApproved)
	evt.AdminNotes = "Delivery in two weeks"

	msg, err := Compose(evt)
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", msg.To)
	assert.Equal(t, "Bulk Order Approved - 665f1c2ab3e4d5f6a7b8c9d0", msg.Subject)
	assert.Contains(t, msg.HTML, "has been <strong>approved</strong>")
	assert.Contains(t, msg.HTML, "Great news!")
	assert.Contains(t, msg.HTML, "<strong>Notes:</strong> Delivery in two weeks")
	assert.NotContains(t, msg.HTML, "declined")
	assert.Contains(t, msg.HTML, "Jane &lt;Doe&gt;", "contact name is escaped")
}

func TestComposeRejected(t *testing.T) {
	evt := statusEvent(models.StatusRejected)
	evt.RejectionReason = "Out of stock"

	msg, err := Compose(evt)
	require.NoError(t, err)

	assert.Equal(t, "Bulk Order Rejected - 665f1c2ab3e4d5f6a7b8c9d0", msg.Subject)
	assert.Contains(t, msg.HTML, "has been declined")
	assert.Contains(t, msg.HTML, "<strong>Reason:</strong> Out of stock")
	assert.NotContains(t, msg.HTML, "Great news!")
}

func TestComposeRejectedWithoutReasonOmitsReasonLine(t *testing.T) {
	msg, err := Compose(statusEvent(models.StatusRejected))
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "Reason:")
}

func TestEmailNotifier(t *testing.T) {
	sender := &captureSender{}
	n := NewEmailNotifier(sender)

	require.NoError(t, n.Handle(context.Background(), events.Event{Type: events.TypeOrderCreated, Email: "x@example.com"}))
	assert.Empty(t, sender.sent, "only status changes are mailed")

	require.NoError(t, n.Handle(context.Background(), statusEvent(models.StatusRequested)))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].HTML, "has been <strong>requested</strong>")

	sender.err = errors.New("relay down")
	assert.Error(t, n.Handle(context.Background(), statusEvent(models.StatusApproved)))

	noEmail := statusEvent(models.StatusApproved)
	noEmail.Email = ""
	assert.Error(t, n.Handle(context.Background(), noEmail))
}
