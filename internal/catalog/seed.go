package catalog

import (
	"context"

	"go.uber.org/zap"
)

// SampleProducts populate an empty catalog on first start.
var SampleProducts = []Product{
	{
		Name:        "Огурцы свежие",
		Category:    "овощи",
		Price:       50,
		MinOrder:    10,
		Unit:        DefaultUnit,
		Description: "Свежие огурцы прямо с грядки",
		ShelfLife:   "7 дней",
		Allergens:   "Нет",
		Image:       "https://images.unsplash.com/photo-1560433802-62c9db426a4d?w=400",
	},
	{
		Name:        "Яблоки Гала",
		Category:    "фрукты",
		Price:       120,
		MinOrder:    20,
		Unit:        DefaultUnit,
		Description: "Сладкие и сочные яблоки",
		ShelfLife:   "14 дней",
		Allergens:   "Нет",
		Image:       "https://images.unsplash.com/photo-1623815242959-fb20354f9b8d?w=400",
	},
}

// SeedIfEmpty inserts SampleProducts when the catalog has no products and
// returns how many were added.
func (s *Service) SeedIfEmpty(ctx context.Context) (int, error) {
	log := s.log(ctx, "SeedIfEmpty")

	existing, err := s.products.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, p := range SampleProducts {
		if _, err := s.Create(ctx, p); err != nil {
			return i, err
		}
	}
	log.Info("catalog seeded", zap.Int("count", len(SampleProducts)))
	return len(SampleProducts), nil
}
