package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sandunt/lastbag/internal/core/domain"
	"github.com/sandunt/lastbag/internal/core/ports"
	"github.com/sandunt/lastbag/internal/pkg/geospatial"
)

// ShopService handles shop profile logic.
type ShopService struct {
	shops ports.ShopRepository
	cache ports.CacheService
}

// NewShopService creates a new ShopService. cache may be nil.
func NewShopService(shops ports.ShopRepository, cache ports.CacheService) *ShopService {
	return &ShopService{shops: shops, cache: cache}
}

// GetByID returns a single shop.
func (s *ShopService) GetByID(ctx context.Context, id string) (*domain.Shop, error) {
	cacheKey := "shops:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var shop domain.Shop
			if err := json.Unmarshal(data, &shop); err == nil {
				return &shop, nil
			}
		}
	}

	shop, err := s.shops.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(shop); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return shop, nil
}

// Upsert saves a shop profile and invalidates its cache entry.
func (s *ShopService) Upsert(ctx context.Context, shop *domain.Shop) error {
	if shop.Name == "" {
		return fmt.Errorf("shop name must not be empty")
	}
	if !(geospatial.Point{Lat: shop.Location.Lat, Lon: shop.Location.Lon}).Valid() {
		return fmt.Errorf("shop location (%v, %v) out of range", shop.Location.Lat, shop.Location.Lon)
	}
	if err := s.shops.Upsert(ctx, shop); err != nil {
		return err
	}
	if s.cache != nil && shop.ID != "" {
		_ = s.cache.Delete(ctx, "shops:id:"+shop.ID)
	}
	return nil
}

// List returns up to limit shops.
func (s *ShopService) List(ctx context.Context, limit int) ([]domain.Shop, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	return s.shops.List(ctx, limit)
}
