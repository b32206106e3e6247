package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sandunt/lastbag/internal/core/domain"
	"github.com/sandunt/lastbag/internal/core/ports"
	"github.com/sandunt/lastbag/internal/pkg/geospatial"
)

// DiscoveryService handles customer-facing browse queries.
type DiscoveryService struct {
	bags  ports.BagRepository
	shops ports.ShopRepository
	cache ports.CacheService
}

// NewDiscoveryService creates a new DiscoveryService. cache may be nil.
func NewDiscoveryService(bags ports.BagRepository, shops ports.ShopRepository, cache ports.CacheService) *DiscoveryService {
	return &DiscoveryService{bags: bags, shops: shops, cache: cache}
}

// NearbyBags returns live bags within radiusMeters of the given point, each
// with its distance from the origin attached, nearest first. maxKm > 0 further
// trims the result; bags whose location cannot be resolved are kept in the
// unfiltered result but always sort last and never pass a maxKm filter.
func (s *DiscoveryService) NearbyBags(ctx context.Context, lat, lon, radiusMeters, maxKm float64, limit int) ([]domain.Bag, error) {
	origin := geospatial.Point{Lat: lat, Lon: lon}
	if !origin.Valid() {
		return nil, fmt.Errorf("invalid origin (%v, %v)", lat, lon)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	// Try cache
	cacheKey := fmt.Sprintf("bags:nearby:%.4f:%.4f:%.0f:%.1f:%d", lat, lon, radiusMeters, maxKm, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var bags []domain.Bag
			if err := json.Unmarshal(data, &bags); err == nil {
				return bags, nil
			}
		}
	}

	candidates, err := s.bags.FindNearby(ctx, lat, lon, radiusMeters, limit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	bags := make([]domain.Bag, 0, len(candidates))
	for i := range candidates {
		b := candidates[i]
		b.Status = domain.Classify(&b, now)
		if b.Status != domain.BagLive {
			continue
		}
		attachDistance(&b, origin)
		if maxKm > 0 && (b.Distance == nil || *b.Distance > maxKm) {
			continue
		}
		bags = append(bags, b)
	}

	sort.SliceStable(bags, func(i, j int) bool {
		if bags[i].Distance == nil {
			return false
		}
		if bags[j].Distance == nil {
			return true
		}
		return *bags[i].Distance < *bags[j].Distance
	})

	// Cache briefly; availability changes with every reservation.
	if s.cache != nil {
		if data, err := json.Marshal(bags); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}

	return bags, nil
}

// NearbyShops returns shops within radiusMeters of the given point with
// distances attached, nearest first.
func (s *DiscoveryService) NearbyShops(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Shop, error) {
	origin := geospatial.Point{Lat: lat, Lon: lon}
	if !origin.Valid() {
		return nil, fmt.Errorf("invalid origin (%v, %v)", lat, lon)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("shops:nearby:%.4f:%.4f:%.0f:%d", lat, lon, radiusMeters, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var shops []domain.Shop
			if err := json.Unmarshal(data, &shops); err == nil {
				return shops, nil
			}
		}
	}

	shops, err := s.shops.FindNearby(ctx, lat, lon, radiusMeters, limit)
	if err != nil {
		return nil, err
	}

	for i := range shops {
		d := geospatial.DistanceKm(origin, geospatial.Point{Lat: shops[i].Location.Lat, Lon: shops[i].Location.Lon})
		shops[i].Distance = &d
	}
	sort.SliceStable(shops, func(i, j int) bool {
		if shops[i].Distance == nil {
			return false
		}
		if shops[j].Distance == nil {
			return true
		}
		return *shops[i].Distance < *shops[j].Distance
	})

	// Shop locations barely change; cache for 5 minutes.
	if s.cache != nil {
		if data, err := json.Marshal(shops); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return shops, nil
}

func attachDistance(b *domain.Bag, origin geospatial.Point) {
	if b.Location == nil {
		return
	}
	d := geospatial.DistanceKm(origin, geospatial.Point{Lat: b.Location.Lat, Lon: b.Location.Lon})
	b.Distance = &d
}
