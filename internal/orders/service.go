package orders

import (
	"context"
	"errors"
	"math"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/optbazar/storefront-api/internal/logger"
	"github.com/optbazar/storefront-api/internal/store"
)

var ErrInvalidStatus = errors.New("invalid status")

// totalsTolerance absorbs float rounding when comparing client totals.
const totalsTolerance = 0.005

// EventPublisher is notified after an order is stored.
type EventPublisher interface {
	OrderCreated(ctx context.Context, o Order) error
}

type Service struct {
	orders    store.Collection[Order]
	publisher EventPublisher
	nowFunc   func() time.Time
}

// NewService returns an order service. publisher may be nil.
func NewService(orders store.Collection[Order], publisher EventPublisher) *Service {
	return &Service{
		orders:    orders,
		publisher: publisher,
		nowFunc:   time.Now,
	}
}

func (s *Service) log(ctx context.Context, method string, fields ...zap.Field) *zap.Logger {
	return logger.FromCtx(ctx).With(
		append([]zap.Field{zap.String("layer", "service"), zap.String("method", method)}, fields...)...,
	)
}

// TotalsMatch reports whether the submitted total equals the sum of the items.
func TotalsMatch(o Order) bool {
	return math.Abs(o.TotalAmount-o.ItemsTotal()) <= totalsTolerance
}

// Create stores a new order. The submitted total is kept as is; a mismatch
// with the items is only logged.
func (s *Service) Create(ctx context.Context, o Order) (Order, error) {
	log := s.log(ctx, "CreateOrder")

	o.ID = s.orders.NewID()
	o.CreatedAt = s.nowFunc()
	if o.Status == "" {
		o.Status = StatusAccepted
	}
	if !o.OrderSource.Valid() {
		o.OrderSource = SourceWeb
	}
	log = log.With(zap.String("order_id", o.ID))

	if !TotalsMatch(o) {
		log.Warn("order total does not match items",
			zap.Float64("submitted", o.TotalAmount),
			zap.Float64("computed", o.ItemsTotal()),
		)
	}

	if err := s.orders.Insert(ctx, o); err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return Order{}, err
	}

	if s.publisher != nil {
		if err := s.publisher.OrderCreated(ctx, o); err != nil {
			log.Error("failed to publish order event", zap.Error(err))
		}
	}

	log.Info("CreateOrder success",
		zap.Int("items", len(o.Items)),
		zap.Float64("total", o.TotalAmount),
	)
	return o, nil
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		s.log(ctx, "ListOrders").Error("failed to list orders", zap.Error(err))
		return nil, err
	}
	slices.SortStableFunc(all, func(a, b Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return all, nil
}

func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.log(ctx, "GetOrder", zap.String("order_id", id)).Error("failed to get order", zap.Error(err))
	}
	return o, err
}

// UpdateStatus sets the status of order id. Only the status field changes.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Order, error) {
	log := s.log(ctx, "UpdateOrderStatus", zap.String("order_id", id), zap.String("status", string(status)))

	if !status.Valid() {
		return Order{}, ErrInvalidStatus
	}

	o, err := store.Modify(ctx, s.orders, id, func(o *Order) error {
		o.Status = status
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("order not found")
		return Order{}, err
	}
	if err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return Order{}, err
	}

	log.Info("UpdateOrderStatus success")
	return o, nil
}

// BulkDelete removes the given orders and returns how many existed.
func (s *Service) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	log := s.log(ctx, "BulkDeleteOrders", zap.Int("requested", len(ids)))

	n, err := s.orders.DeleteMany(ctx, ids)
	if err != nil {
		log.Error("failed to delete orders", zap.Error(err))
		return n, err
	}

	log.Info("BulkDeleteOrders success", zap.Int64("deleted", n))
	return n, nil
}
