package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optbazar/storefront-api/internal/catalog"
	"github.com/optbazar/storefront-api/internal/config"
	"github.com/optbazar/storefront-api/internal/store"
)

func TestOpenCollections_Memory(t *testing.T) {
	ctx := context.Background()
	c, err := OpenCollections(ctx, config.StoreConfig{Backend: config.BackendMemory}, nil)
	require.NoError(t, err)
	defer c.Close(ctx)

	require.NoError(t, c.Products.Insert(ctx, catalog.Product{ID: "p1", Name: "Огурцы"}))
	got, err := c.Products.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Огурцы", got.Name)
	assert.NoError(t, c.Close(ctx))
}

func TestOpenCollections_DynamoNeedsClient(t *testing.T) {
	_, err := OpenCollections(context.Background(), config.StoreConfig{Backend: config.BackendDynamoDB}, nil)
	assert.Error(t, err)
}

func TestOpenCollections_Dynamo(t *testing.T) {
	c, err := OpenCollections(context.Background(), config.StoreConfig{
		Backend:          config.BackendDynamoDB,
		ProductsTable:    "products",
		OrdersTable:      "orders",
		IdempotencyTable: "idem",
	}, noopDynamo{})
	require.NoError(t, err)
	assert.IsType(t, &store.DynamoCollection[catalog.Product]{}, c.Products)
}

func TestOpenCollections_Unknown(t *testing.T) {
	_, err := OpenCollections(context.Background(), config.StoreConfig{Backend: "sqlite"}, nil)
	assert.Error(t, err)
}
