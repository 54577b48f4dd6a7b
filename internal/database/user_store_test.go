package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestFindUsers(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns display fields keyed by id", func(mt *mtest.T) {
		admin, buyer := primitive.NewObjectID(), primitive.NewObjectID()
		ns := mtest.TestDb + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: admin}, {Key: "name", Value: "Ada Admin"}, {Key: "email", Value: "admin@example.com"}},
			bson.D{{Key: "_id", Value: buyer}, {Key: "name", Value: "Jane Doe"}, {Key: "email", Value: "jane@example.com"}, {Key: "mobile", Value: "555-0100"}},
		))
		store := &UserStore{coll: mt.Coll}

		users, err := store.FindUsers(context.Background(), []primitive.ObjectID{admin, buyer, primitive.NewObjectID()})
		require.NoError(mt, err)
		assert.Len(mt, users, 2)
		assert.Equal(mt, "Ada Admin", users[admin].Name)
		assert.Equal(mt, "555-0100", users[buyer].Mobile)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
		projection := started.Command.Lookup("projection").Document()
		_, err = projection.LookupErr("password")
		assert.Error(mt, err, "password hash is never loaded")
		_, err = projection.LookupErr("mobile")
		assert.NoError(mt, err)
	})

	mt.Run("no ids skips the query", func(mt *mtest.T) {
		store := &UserStore{coll: mt.Coll}

		users, err := store.FindUsers(context.Background(), nil)
		require.NoError(mt, err)
		assert.Empty(mt, users)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestProductProjectionIncludesCategoryAndDescription(t *testing.T) {
	for _, field := range []string{"name", "image", "price", "category", "description"} {
		assert.Equal(t, 1, productProjection[field], field)
	}
}
