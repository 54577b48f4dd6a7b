// Package bulkorder implements the bulk-order workflow: intake, review and
// the query/analytics views. Every operation takes the acting auth.Caller
// explicitly.
package bulkorder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bulk-order-api-server/internal/auth"
	"bulk-order-api-server/internal/events"
	"bulk-order-api-server/internal/metrics"
	"bulk-order-api-server/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Service struct {
	store     Store
	catalog   Catalog
	directory Directory
	publisher Publisher
	archiver  Archiver
	metrics   *metrics.Metrics
	now       func() time.Time
}

type Option func(*Service)

func WithArchiver(a Archiver) Option { return func(s *Service) { s.archiver = a } }

// WithDirectory fills requester and approver summaries in views. Without
// one, views carry only the user ids.
func WithDirectory(d Directory) Option { return func(s *Service) { s.directory = d } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(store Store, catalog Catalog, publisher Publisher, opts ...Option) *Service {
	s := &Service{
		store:     store,
		catalog:   catalog,
		publisher: publisher,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) publish(ctx context.Context, eventType string, order *models.BulkOrder, previous models.OrderStatus) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, events.New(eventType, order, previous, s.now()))
}

// views expands the line items of every order with one catalog lookup and
// the requester and approver with one directory lookup.
func (s *Service) views(ctx context.Context, orders ...models.BulkOrder) ([]OrderView, error) {
	productIDs, userIDs := newIDSet(), newIDSet()
	for i := range orders {
		for _, id := range orders[i].ProductIDs() {
			productIDs.add(id)
		}
		userIDs.add(orders[i].User)
		if orders[i].ApprovedBy != nil {
			userIDs.add(*orders[i].ApprovedBy)
		}
	}

	products := map[primitive.ObjectID]models.Product{}
	if len(productIDs.ids) > 0 {
		var err error
		products, err = s.catalog.FindProducts(ctx, productIDs.ids)
		if err != nil {
			return nil, fmt.Errorf("load products: %w", err)
		}
	}

	users := map[primitive.ObjectID]models.User{}
	if s.directory != nil && len(userIDs.ids) > 0 {
		var err error
		users, err = s.directory.FindUsers(ctx, userIDs.ids)
		if err != nil {
			return nil, fmt.Errorf("load users: %w", err)
		}
	}

	out := make([]OrderView, 0, len(orders))
	for i := range orders {
		out = append(out, newOrderView(&orders[i], products, users))
	}
	return out, nil
}

// idSet keeps ids unique and in first-seen order.
type idSet struct {
	seen map[primitive.ObjectID]struct{}
	ids  []primitive.ObjectID
}

func newIDSet() *idSet { return &idSet{seen: map[primitive.ObjectID]struct{}{}} }

func (s *idSet) add(id primitive.ObjectID) {
	if _, ok := s.seen[id]; !ok {
		s.seen[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
}

func (s *Service) view(ctx context.Context, order *models.BulkOrder) (*OrderView, error) {
	views, err := s.views(ctx, *order)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func requireAdmin(caller auth.Caller) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func requireSuperAdmin(caller auth.Caller) error {
	if !caller.IsSuperAdmin() {
		return ErrForbidden
	}
	return nil
}

// parseOrderID treats malformed ids as ids that do not resolve.
func parseOrderID(orderID string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(orderID))
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return id, nil
}

func newReference() string {
	return fmt.Sprintf("BO-%s", strings.ToUpper(uuid.New().String()[:8]))
}
