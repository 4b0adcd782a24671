package main

import (
	"context"

	"github.com/optbazar/storefront-api/internal/orders"
)

// MetricOrdersNotified counts orders announced to the admin chat.
const MetricOrdersNotified = "OrdersNotified"

// notifyKeyPrefix namespaces worker keys away from the API's "order:" keys.
const notifyKeyPrefix = "notify:"

// OrderReader loads the stored order referenced by a queue event.
type OrderReader interface {
	Get(ctx context.Context, id string) (orders.Order, error)
}

// Notifier announces a new order.
type Notifier interface {
	OrderCreated(ctx context.Context, o orders.Order) error
}

// Counter records a count metric.
type Counter interface {
	Count(ctx context.Context, name string, value float64, dimensions map[string]string) error
}
