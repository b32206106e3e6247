package usecases

import (
	"context"
	"fmt"

	"github.com/sandunt/lastbag/internal/core/domain"
	"github.com/sandunt/lastbag/internal/core/ports"
)

// FavoriteService lets customers follow shops.
type FavoriteService struct {
	favorites ports.FavoriteRepository
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(favorites ports.FavoriteRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites}
}

// Add marks a shop as a favorite of the customer.
func (s *FavoriteService) Add(ctx context.Context, customerID, shopID string) error {
	if customerID == "" || shopID == "" {
		return fmt.Errorf("customer id and shop id are required")
	}
	return s.favorites.Add(ctx, customerID, shopID)
}

// Remove drops a shop from the customer's favorites.
func (s *FavoriteService) Remove(ctx context.Context, customerID, shopID string) error {
	if customerID == "" || shopID == "" {
		return fmt.Errorf("customer id and shop id are required")
	}
	return s.favorites.Remove(ctx, customerID, shopID)
}

// ListByCustomer returns the shops the customer follows.
func (s *FavoriteService) ListByCustomer(ctx context.Context, customerID string) ([]domain.Shop, error) {
	return s.favorites.ListByCustomer(ctx, customerID)
}
