package catalog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/optbazar/storefront-api/internal/logger"
	"github.com/optbazar/storefront-api/internal/store"
)

// Service holds the product catalog business logic.
type Service struct {
	products store.Collection[Product]
	nowFunc  func() time.Time
}

func NewService(products store.Collection[Product]) *Service {
	return &Service{
		products: products,
		nowFunc:  time.Now,
	}
}

func (s *Service) log(ctx context.Context, method string, fields ...zap.Field) *zap.Logger {
	return logger.FromCtx(ctx).With(
		append([]zap.Field{zap.String("layer", "service"), zap.String("method", method)}, fields...)...,
	)
}

// List returns every product.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	log := s.log(ctx, "ListProducts")

	products, err := s.products.List(ctx)
	if err != nil {
		log.Error("failed to list products", zap.Error(err))
		return nil, err
	}
	log.Debug("ListProducts success", zap.Int("count", len(products)))
	return products, nil
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.log(ctx, "GetProduct", zap.String("product_id", id)).Error("failed to get product", zap.Error(err))
	}
	return p, err
}

// Create assigns an id and creation time and stores p.
func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	log := s.log(ctx, "CreateProduct", zap.String("name", p.Name))

	p.ID = s.products.NewID()
	p.CreatedAt = s.nowFunc()
	if p.Unit == "" {
		p.Unit = DefaultUnit
	}

	if err := s.products.Insert(ctx, p); err != nil {
		log.Error("failed to insert product", zap.Error(err))
		return Product{}, err
	}

	log.Info("CreateProduct success", zap.String("product_id", p.ID))
	return p, nil
}

// Replace overwrites every mutable field of product id with p. The id and
// creation time are kept.
func (s *Service) Replace(ctx context.Context, id string, p Product) (Product, error) {
	log := s.log(ctx, "ReplaceProduct", zap.String("product_id", id))

	updated, err := store.Modify(ctx, s.products, id, func(cur *Product) error {
		p.ID = cur.ID
		p.CreatedAt = cur.CreatedAt
		if p.Unit == "" {
			p.Unit = DefaultUnit
		}
		*cur = p
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("product not found")
		return Product{}, err
	}
	if err != nil {
		log.Error("failed to replace product", zap.Error(err))
		return Product{}, err
	}

	log.Info("ReplaceProduct success")
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	log := s.log(ctx, "DeleteProduct", zap.String("product_id", id))

	err := s.products.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("product not found")
		return err
	}
	if err != nil {
		log.Error("failed to delete product", zap.Error(err))
		return err
	}

	log.Info("DeleteProduct success")
	return nil
}
