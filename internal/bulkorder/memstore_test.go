package bulkorder

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"bulk-order-api-server/internal/events"
	"bulk-order-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory Store with the same conditional-transition
// semantics as the Mongo implementation.
type memStore struct {
	mu        sync.Mutex
	orders    map[primitive.ObjectID]models.BulkOrder
	insertErr error
	countErr  error
}

func newMemStore() *memStore {
	return &memStore{orders: map[primitive.ObjectID]models.BulkOrder{}}
}

func (m *memStore) Insert(ctx context.Context, order *models.BulkOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	order.Normalize()
	m.orders[order.ID] = *order
	return nil
}

func (m *memStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.BulkOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (m *memStore) FindOwned(ctx context.Context, id, owner primitive.ObjectID) (*models.BulkOrder, error) {
	o, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.User != owner {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *memStore) ApplyTransition(ctx context.Context, id primitive.ObjectID, t Transition) (*models.BulkOrder, models.OrderStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, "", ErrNotFound
	}
	if !t.Allows(o.Status) {
		return nil, "", ErrInvalidTransition
	}
	previous := o.Status
	t.ApplyTo(&o)
	m.orders[id] = o
	return &o, previous, nil
}

func (m *memStore) Delete(ctx context.Context, id primitive.ObjectID) (*models.BulkOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.orders, id)
	return &o, nil
}

func (m *memStore) List(ctx context.Context, filter ListFilter, page Page) ([]models.BulkOrder, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []models.BulkOrder
	for _, o := range m.orders {
		if filter.User != nil && o.User != *filter.User {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		matched = append(matched, o)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].SubmittedAt.After(matched[j].SubmittedAt) })

	total := int64(len(matched))
	start := page.Skip()
	if start >= total {
		return []models.BulkOrder{}, total, nil
	}
	end := start + int64(page.Limit)
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *memStore) CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return nil, m.countErr
	}
	out := map[models.OrderStatus]int64{}
	for _, o := range m.orders {
		out[o.Status]++
	}
	return out, nil
}

func (m *memStore) CountByBuyerType(ctx context.Context) (map[models.BuyerType]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[models.BuyerType]int64{}
	for _, o := range m.orders {
		out[o.BuyerType]++
	}
	return out, nil
}

func (m *memStore) CountSubmittedSince(ctx context.Context, since time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, o := range m.orders {
		if !o.SubmittedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) SumTotalQuantity(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, o := range m.orders {
		n += int64(o.TotalQuantity)
	}
	return n, nil
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type fakeCatalog struct {
	products map[primitive.ObjectID]models.Product
	err      error
}

func (c *fakeCatalog) FindProducts(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	out := map[primitive.ObjectID]models.Product{}
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeDirectory struct {
	users map[primitive.ObjectID]models.User
	calls int
}

func (d *fakeDirectory) FindUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	d.calls++
	out := map[primitive.ObjectID]models.User{}
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, evt events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeArchiver struct {
	archived []string
	err      error
}

func (a *fakeArchiver) ArchiveOrder(ctx context.Context, order *models.BulkOrder) error {
	if a.err != nil {
		return a.err
	}
	a.archived = append(a.archived, order.Reference)
	return nil
}

var errStoreDown = errors.New("store unavailable")
