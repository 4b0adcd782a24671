// Package app wires configuration into concrete stores shared by the API and
// the worker.
package app

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/optbazar/storefront-api/internal/aws"
	"github.com/optbazar/storefront-api/internal/catalog"
	"github.com/optbazar/storefront-api/internal/config"
	"github.com/optbazar/storefront-api/internal/idempotency"
	"github.com/optbazar/storefront-api/internal/orders"
	"github.com/optbazar/storefront-api/internal/store"
)

const connectTimeout = 10 * time.Second

// Collections are the document collections for one backend.
type Collections struct {
	Products    store.Collection[catalog.Product]
	Orders      store.Collection[orders.Order]
	Idempotency store.Collection[idempotency.Record]

	close func(context.Context) error
}

// Close releases the backend connection, if any.
func (c *Collections) Close(ctx context.Context) error {
	if c.close == nil {
		return nil
	}
	return c.close(ctx)
}

// OpenCollections connects to the backend named by sc.Backend. dynamo is used
// for the dynamodb backend and may be nil otherwise.
func OpenCollections(ctx context.Context, sc config.StoreConfig, dynamo aws.DynamoDBAPI) (*Collections, error) {
	switch sc.Backend {
	case config.BackendMongo:
		return openMongo(ctx, sc)
	case config.BackendDynamoDB:
		if dynamo == nil {
			return nil, fmt.Errorf("dynamodb backend requires a client")
		}
		return &Collections{
			Products:    store.NewDynamoCollection[catalog.Product](dynamo, sc.ProductsTable, "id"),
			Orders:      store.NewDynamoCollection[orders.Order](dynamo, sc.OrdersTable, "id"),
			Idempotency: store.NewDynamoCollection[idempotency.Record](dynamo, sc.IdempotencyTable, "idempotency_key"),
		}, nil
	case config.BackendMemory:
		return &Collections{
			Products:    store.NewMemoryCollection[catalog.Product](),
			Orders:      store.NewMemoryCollection[orders.Order](),
			Idempotency: store.NewMemoryCollection[idempotency.Record](),
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", sc.Backend)
	}
}

func openMongo(ctx context.Context, sc config.StoreConfig) (*Collections, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(sc.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	c := MongoCollections(client.Database(sc.MongoDatabase))
	c.close = client.Disconnect
	return c, nil
}

// MongoCollections binds the collections to an already connected database.
func MongoCollections(db *mongo.Database) *Collections {
	return &Collections{
		Products:    store.NewMongoCollection[catalog.Product](db.Collection("products")),
		Orders:      store.NewMongoCollection[orders.Order](db.Collection("orders")),
		Idempotency: store.NewMongoCollection[idempotency.Record](db.Collection("idempotency")),
	}
}
