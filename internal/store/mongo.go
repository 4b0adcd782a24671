package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCollection stores entities as documents whose _id is the entity id.
// T must map its id field to "_id" in its bson tags.
type MongoCollection[T Entity] struct {
	coll *mongo.Collection
}

func NewMongoCollection[T Entity](coll *mongo.Collection) *MongoCollection[T] {
	return &MongoCollection[T]{coll: coll}
}

func (m *MongoCollection[T]) NewID() string {
	return primitive.NewObjectID().Hex()
}

func (m *MongoCollection[T]) Insert(ctx context.Context, item T) error {
	if _, err := m.coll.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert %s: %w", item.EntityID(), ErrConflict)
		}
		return fmt.Errorf("insert %s: %w", item.EntityID(), err)
	}
	return nil
}

func (m *MongoCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		var zero T
		return zero, ErrNotFound
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("find %s: %w", id, err)
	}
	return out, nil
}

func (m *MongoCollection[T]) List(ctx context.Context) ([]T, error) {
	cur, err := m.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}

func (m *MongoCollection[T]) Replace(ctx context.Context, item T) error {
	res, err := m.coll.ReplaceOne(ctx, bson.M{"_id": item.EntityID()}, item)
	if err != nil {
		return fmt.Errorf("replace %s: %w", item.EntityID(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoCollection[T]) Delete(ctx context.Context, id string) error {
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoCollection[T]) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := m.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("delete many: %w", err)
	}
	return res.DeletedCount, nil
}
