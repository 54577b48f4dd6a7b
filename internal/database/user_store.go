package database

import (
	"context"
	"errors"
	"strings"

	"bulk-order-api-server/internal/bulkorder"
	"bulk-order-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrUserNotFound = errors.New("user not found")

type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(UsersCollection)}
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// userSummaryProjection never includes the password hash.
var userSummaryProjection = bson.M{"name": 1, "email": 1, "mobile": 1}

// FindUsers loads the display fields of the given users.
func (s *UserStore) FindUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(userSummaryProjection)
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

var _ bulkorder.Directory = (*UserStore)(nil)
