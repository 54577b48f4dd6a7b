package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bulk-order-api-server/internal/bulkorder"
	"bulk-order-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BulkOrderStore is the MongoDB implementation of bulkorder.Store.
type BulkOrderStore struct {
	coll *mongo.Collection
}

func NewBulkOrderStore(db *mongo.Database) *BulkOrderStore {
	return &BulkOrderStore{coll: db.Collection(BulkOrdersCollection)}
}

func (s *BulkOrderStore) Insert(ctx context.Context, order *models.BulkOrder) error {
	order.Normalize()
	result, err := s.coll.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

func (s *BulkOrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.BulkOrder, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *BulkOrderStore) FindOwned(ctx context.Context, id, owner primitive.ObjectID) (*models.BulkOrder, error) {
	return s.findOne(ctx, bson.M{"_id": id, "user": owner})
}

func (s *BulkOrderStore) findOne(ctx context.Context, filter bson.M) (*models.BulkOrder, error) {
	var order models.BulkOrder
	if err := s.coll.FindOne(ctx, filter).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bulkorder.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ApplyTransition updates the order only while its status is one of t.From.
// When nothing matches, a second lookup tells a missing order apart from one
// in the wrong status.
func (s *BulkOrderStore) ApplyTransition(ctx context.Context, id primitive.ObjectID, t bulkorder.Transition) (*models.BulkOrder, models.OrderStatus, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var order models.BulkOrder
	err := s.coll.FindOneAndUpdate(ctx, transitionFilter(id, t), transitionUpdate(t), opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		n, cerr := s.coll.CountDocuments(ctx, bson.M{"_id": id})
		if cerr != nil {
			return nil, "", cerr
		}
		if n == 0 {
			return nil, "", bulkorder.ErrNotFound
		}
		return nil, "", bulkorder.ErrInvalidTransition
	}
	if err != nil {
		return nil, "", err
	}

	previous := order.Status
	t.ApplyTo(&order)
	return &order, previous, nil
}

func transitionFilter(id primitive.ObjectID, t bulkorder.Transition) bson.M {
	return bson.M{"_id": id, "status": bson.M{"$in": t.From}}
}

func transitionUpdate(t bulkorder.Transition) bson.M {
	set := bson.M{
		"status":          t.To,
		"rejectionReason": t.RejectionReason,
		"approvedBy":      t.ApprovedBy,
		"approvedAt":      t.ApprovedAt,
		"updatedAt":       t.At,
	}
	if t.AdminNotes != "" {
		set["adminNotes"] = t.AdminNotes
	}
	return bson.M{"$set": set}
}

func (s *BulkOrderStore) Delete(ctx context.Context, id primitive.ObjectID) (*models.BulkOrder, error) {
	var order models.BulkOrder
	if err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bulkorder.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func listFilter(f bulkorder.ListFilter) bson.M {
	filter := bson.M{}
	if f.User != nil {
		filter["user"] = *f.User
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}

// List returns one page of matching orders, newest submission first, and the
// total match count.
func (s *BulkOrderStore) List(ctx context.Context, f bulkorder.ListFilter, page bulkorder.Page) ([]models.BulkOrder, int64, error) {
	filter := listFilter(f)

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var orders []models.BulkOrder
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	if orders == nil {
		orders = []models.BulkOrder{}
	}
	return orders, total, nil
}

type groupCount struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

func countByPipeline(field string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}

func sumQuantityPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$totalQuantity"}}},
		}}},
	}
}

func (s *BulkOrderStore) countBy(ctx context.Context, field string) ([]groupCount, error) {
	cursor, err := s.coll.Aggregate(ctx, countByPipeline(field))
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	var rows []groupCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *BulkOrderStore) CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error) {
	rows, err := s.countBy(ctx, "status")
	if err != nil {
		return nil, err
	}
	out := make(map[models.OrderStatus]int64, len(rows))
	for _, r := range rows {
		out[models.OrderStatus(r.Key)] = r.Count
	}
	return out, nil
}

func (s *BulkOrderStore) CountByBuyerType(ctx context.Context) (map[models.BuyerType]int64, error) {
	rows, err := s.countBy(ctx, "buyerType")
	if err != nil {
		return nil, err
	}
	out := make(map[models.BuyerType]int64, len(rows))
	for _, r := range rows {
		out[models.BuyerType(r.Key)] = r.Count
	}
	return out, nil
}

func (s *BulkOrderStore) CountSubmittedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{"submittedAt": bson.M{"$gte": since}})
}

func (s *BulkOrderStore) SumTotalQuantity(ctx context.Context) (int64, error) {
	cursor, err := s.coll.Aggregate(ctx, sumQuantityPipeline())
	if err != nil {
		return 0, fmt.Errorf("aggregate totalQuantity: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

var _ bulkorder.Store = (*BulkOrderStore)(nil)
