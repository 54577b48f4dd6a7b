package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	BulkOrdersCollection = "bulkorders"
	ProductsCollection   = "products"
	UsersCollection      = "users"
)

// Connect opens a client and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		BulkOrdersCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "submittedAt", Value: -1}}},
			{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
}

// EnsureIndexes creates the indexes the queries rely on. Existing indexes
// with the same keys are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, models := range indexModels() {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// ClientPinger checks the primary for the health endpoint.
type ClientPinger struct {
	Client *mongo.Client
}

func (p ClientPinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx, readpref.Primary())
}
