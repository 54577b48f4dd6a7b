package bulkorder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bulk-order-api-server/internal/auth"
	"bulk-order-api-server/internal/events"
	"bulk-order-api-server/internal/logging"
	"bulk-order-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusUpdate is the administrator's review decision.
type StatusUpdate struct {
	Status          string
	AdminNotes      string
	RejectionReason string
}

// UpdateStatus routes a requested target status to the matching named
// transition: Approved -> Approve, Rejected -> Reject, Requested -> Reopen.
// Each transition applies its own authorization on top of the admin check.
func (s *Service) UpdateStatus(ctx context.Context, caller auth.Caller, orderID string, upd StatusUpdate) (*OrderView, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	target := models.OrderStatus(strings.TrimSpace(upd.Status))
	if !target.Valid() {
		return nil, invalid("Invalid status. Must be 'Requested', 'Approved', or 'Rejected'")
	}
	id, err := parseOrderID(orderID)
	if err != nil {
		return nil, err
	}

	switch target {
	case models.StatusApproved:
		return s.Approve(ctx, caller, id, upd.AdminNotes)
	case models.StatusRejected:
		return s.Reject(ctx, caller, id, upd.AdminNotes, upd.RejectionReason)
	default:
		return s.Reopen(ctx, caller, id, upd.AdminNotes)
	}
}

// Approve moves a Requested order to Approved and records who approved it.
func (s *Service) Approve(ctx context.Context, caller auth.Caller, id primitive.ObjectID, notes string) (*OrderView, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	now := s.now()
	approver := caller.UserID
	return s.transition(ctx, id, Transition{
		From:       []models.OrderStatus{models.StatusRequested},
		To:         models.StatusApproved,
		AdminNotes: strings.TrimSpace(notes),
		ApprovedBy: &approver,
		ApprovedAt: &now,
		At:         now,
	})
}

// Reject moves a Requested order to Rejected, storing reason as given.
func (s *Service) Reject(ctx context.Context, caller auth.Caller, id primitive.ObjectID, notes, reason string) (*OrderView, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, Transition{
		From:            []models.OrderStatus{models.StatusRequested},
		To:              models.StatusRejected,
		AdminNotes:      strings.TrimSpace(notes),
		RejectionReason: strings.TrimSpace(reason),
		At:              s.now(),
	})
}

// Reopen returns a decided order to Requested and clears the decision. Only
// a superadmin may reopen.
func (s *Service) Reopen(ctx context.Context, caller auth.Caller, id primitive.ObjectID, notes string) (*OrderView, error) {
	if err := requireSuperAdmin(caller); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, Transition{
		From:       []models.OrderStatus{models.StatusApproved, models.StatusRejected},
		To:         models.StatusRequested,
		AdminNotes: strings.TrimSpace(notes),
		At:         s.now(),
	})
}

func (s *Service) transition(ctx context.Context, id primitive.ObjectID, t Transition) (*OrderView, error) {
	order, previous, err := s.store.ApplyTransition(ctx, id, t)
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return nil, fmt.Errorf("%w: cannot move order to %s from its current status", ErrInvalidTransition, t.To)
		}
		return nil, wrapStoreErr("update bulk order status", err)
	}
	s.metrics.ObserveTransition(string(t.To))
	logging.Log(logging.Fields{
		Component: "review",
		Event:     events.TypeStatusChanged,
		OrderID:   order.ID.Hex(),
		Reference: order.Reference,
		Status:    string(order.Status),
		Message:   "status changed from " + string(previous),
	})

	// The transition is committed; event delivery cannot undo it.
	s.publish(ctx, events.TypeStatusChanged, order, previous)

	view, err := s.view(ctx, order)
	if err != nil {
		// Fall back to an unexpanded view rather than reporting a committed write as failed.
		v := newOrderView(order, nil, nil)
		return &v, nil
	}
	return view, nil
}

// Delete permanently removes an order, archiving it first when an archiver is
// configured. An archive failure aborts the delete.
func (s *Service) Delete(ctx context.Context, caller auth.Caller, orderID string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	id, err := parseOrderID(orderID)
	if err != nil {
		return err
	}

	if s.archiver != nil {
		order, err := s.store.FindByID(ctx, id)
		if err != nil {
			return wrapStoreErr("load bulk order", err)
		}
		if err := s.archiver.ArchiveOrder(ctx, order); err != nil {
			return fmt.Errorf("archive bulk order: %w", err)
		}
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return wrapStoreErr("delete bulk order", err)
	}
	s.publish(ctx, events.TypeOrderDeleted, deleted, deleted.Status)
	return nil
}

func wrapStoreErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
