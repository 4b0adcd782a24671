package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ns = "optbazar.widgets"

func TestMongoCollection(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("NewID is an ObjectID", func(mt *mtest.T) {
		c := NewMongoCollection[widget](mt.Coll)
		_, err := primitive.ObjectIDFromHex(c.NewID())
		assert.NoError(mt, err)
	})

	mt.Run("Insert", func(mt *mtest.T) {
		c := NewMongoCollection[widget](mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(mt, c.Insert(ctx, widget{ID: "w1", Name: "bolt"}))
	})

	mt.Run("Insert duplicate", func(mt *mtest.T) {
		c := NewMongoCollection[widget](mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		assert.ErrorIs(mt, c.Insert(ctx, widget{ID: "w1"}), ErrConflict)
	})

	mt.Run("Get", func(mt *mtest.T) {
		c := NewMongoCollection[widget](mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "w1"},
			{Key: "name", Value: "bolt"},
			{Key: "price", Value: 1.5},
		}))

		got, err := c.Get(ctx, "w1")
		require.NoError(mt, err)
		assert.Equal(mt, widget{ID: "w1", Name: "bolt", Price: 1.5}, got)
	})

	mt.Run("Get missing", func(mt *mtest.T) {
		c := NewMongoCollection[widget](mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := c.Get(ctx, "nope")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("List", func(mt *mtest.T) {
		c := NewMongoCollection[widget](mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "w1"}, {Key: "name", Value: "bolt"}},
			bson.D{{Key: "_id", Value: "w2"}, {Key: "name", Value: "nut"}},
		))

		all, err := c.List(ctx)
		require.NoError(mt, err)
		require.Len(mt, all, 2)
		assert.Equal(mt, "nut", all[1].Name)
	})

	mt.Run("List empty is not nil", func(mt *mtest.T) {
		c := NewMongoCollection[widget](mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		all, err := c.List(ctx)
		require.NoError(mt, err)
		assert.NotNil(mt, all)
		assert.Empty(mt, all)
	})

	mt.Run("Replace", func(mt *mtest.T) {
		c := NewMongoCollection[widget](mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		assert.NoError(mt, c.Replace(ctx, widget{ID: "w1", Name: "bolt"}))
	})

	mt.Run("Replace missing", func(mt *mtest.T) {
		c := NewMongoCollection[widget](mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		assert.ErrorIs(mt, c.Replace(ctx, widget{ID: "nope"}), ErrNotFound)
	})

	mt.Run("Delete", func(mt *mtest.T) {
		c := NewMongoCollection[widget](mt.Coll)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		assert.NoError(mt, c.Delete(ctx, "w1"))
		assert.ErrorIs(mt, c.Delete(ctx, "w1"), ErrNotFound)
	})

	mt.Run("DeleteMany", func(mt *mtest.T) {
		c := NewMongoCollection[widget](mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}))

		n, err := c.DeleteMany(ctx, []string{"w1", "w2", "w3"})
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), n)
	})

	mt.Run("DeleteMany without ids skips the round trip", func(mt *mtest.T) {
		c := NewMongoCollection[widget](mt.Coll)

		n, err := c.DeleteMany(ctx, nil)
		require.NoError(mt, err)
		assert.Zero(mt, n)
	})
}
