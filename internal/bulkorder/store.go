package bulkorder

import (
	"context"
	"time"

	"bulk-order-api-server/internal/events"
	"bulk-order-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store persists bulk orders. Implementations return ErrNotFound when an id
// does not resolve and ErrInvalidTransition when a conditional transition
// finds the order in a status other than Transition.From. ApplyTransition
// returns the updated order and the status it had before the write.
type Store interface {
	Insert(ctx context.Context, order *models.BulkOrder) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.BulkOrder, error)
	FindOwned(ctx context.Context, id, owner primitive.ObjectID) (*models.BulkOrder, error)
	ApplyTransition(ctx context.Context, id primitive.ObjectID, t Transition) (*models.BulkOrder, models.OrderStatus, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.BulkOrder, error)
	List(ctx context.Context, filter ListFilter, page Page) ([]models.BulkOrder, int64, error)
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)
	CountByBuyerType(ctx context.Context) (map[models.BuyerType]int64, error)
	CountSubmittedSince(ctx context.Context, since time.Time) (int64, error)
	SumTotalQuantity(ctx context.Context) (int64, error)
}

// Catalog resolves product references. Missing ids are simply absent from the
// returned map.
type Catalog interface {
	FindProducts(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
}

// Directory resolves user references for display. Missing ids are absent
// from the returned map.
type Directory interface {
	FindUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
}

// Publisher receives committed-write facts. It must not fail the caller.
type Publisher interface {
	Publish(ctx context.Context, evt events.Event)
}

// Archiver keeps a copy of an order before it is deleted.
type Archiver interface {
	ArchiveOrder(ctx context.Context, order *models.BulkOrder) error
}

// Transition is a conditional status write. It applies only while the stored
// status is one of From.
type Transition struct {
	From            []models.OrderStatus
	To              models.OrderStatus
	AdminNotes      string // empty leaves stored notes untouched
	RejectionReason string
	ApprovedBy      *primitive.ObjectID
	ApprovedAt      *time.Time
	At              time.Time
}

// Allows reports whether the transition may start from status.
func (t Transition) Allows(status models.OrderStatus) bool {
	for _, from := range t.From {
		if from == status {
			return true
		}
	}
	return false
}

// ApplyTo mutates o the same way a store applies the transition.
func (t Transition) ApplyTo(o *models.BulkOrder) {
	o.Status = t.To
	o.UpdatedAt = t.At
	if t.AdminNotes != "" {
		o.AdminNotes = t.AdminNotes
	}
	o.RejectionReason = t.RejectionReason
	o.ApprovedBy = t.ApprovedBy
	o.ApprovedAt = t.ApprovedAt
}

// ListFilter narrows List. Zero values mean "any".
type ListFilter struct {
	User   *primitive.ObjectID
	Status models.OrderStatus
}

type Page struct {
	Number int
	Limit  int
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// NewPage clamps page to >= 1 and limit to 1..100 (default 10).
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Skip() int64 { return int64(p.Number-1) * int64(p.Limit) }

// Pages returns ceil(total/limit).
func (p Page) Pages(total int64) int64 {
	if total <= 0 {
		return 0
	}
	return (total + int64(p.Limit) - 1) / int64(p.Limit)
}
