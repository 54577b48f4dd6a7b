package database

import (
	"context"

	"bulk-order-api-server/internal/bulkorder"
	"bulk-order-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var productProjection = bson.M{"name": 1, "image": 1, "price": 1, "category": 1, "description": 1}

// ProductCatalog reads the products collection owned by the storefront.
type ProductCatalog struct {
	coll *mongo.Collection
}

func NewProductCatalog(db *mongo.Database) *ProductCatalog {
	return &ProductCatalog{coll: db.Collection(ProductsCollection)}
}

func (c *ProductCatalog) FindProducts(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	out := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(productProjection)
	cursor, err := c.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

var _ bulkorder.Catalog = (*ProductCatalog)(nil)
