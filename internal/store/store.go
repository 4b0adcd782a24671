// Package store is a small document-store abstraction shared by the catalog,
// orders and idempotency services. Each collection holds one entity type keyed
// by a string id; MongoDB, DynamoDB and an in-memory map are supported.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Entity is anything that can be stored in a Collection.
type Entity interface {
	EntityID() string
}

// Collection is a repository over a single entity type.
type Collection[T Entity] interface {
	// NewID returns a fresh identifier in the backend's native format.
	NewID() string
	// Insert fails with ErrConflict if the id is taken.
	Insert(ctx context.Context, item T) error
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context) ([]T, error)
	// Replace overwrites an existing item and fails with ErrNotFound otherwise.
	Replace(ctx context.Context, item T) error
	Delete(ctx context.Context, id string) error
	// DeleteMany removes the given ids and reports how many existed.
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// Modify loads an item, applies fn and writes it back.
func Modify[T Entity](ctx context.Context, c Collection[T], id string, fn func(*T) error) (T, error) {
	item, err := c.Get(ctx, id)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := fn(&item); err != nil {
		var zero T
		return zero, err
	}
	if err := c.Replace(ctx, item); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}
