package ports

import (
	"context"
	"time"

	"github.com/sandunt/lastbag/internal/core/domain"
)

// ShopRepository persists shops.
type ShopRepository interface {
	Upsert(ctx context.Context, shop *domain.Shop) error
	GetByID(ctx context.Context, id string) (*domain.Shop, error)
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Shop, error)
	List(ctx context.Context, limit int) ([]domain.Shop, error)
}

// BagRepository persists surprise bags.
type BagRepository interface {
	Create(ctx context.Context, bag *domain.Bag) error
	GetByID(ctx context.Context, id string) (*domain.Bag, error)
	ListByShop(ctx context.Context, shopID string) ([]domain.Bag, error)
	// FindNearby returns available bags within radiusMeters of the given
	// point, joined with their shop's location.
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Bag, error)
	// ListFlaggedActive returns every bag still flagged active or available,
	// the sweep candidates.
	ListFlaggedActive(ctx context.Context) ([]domain.Bag, error)
	// Deactivate clears both availability flags and stamps updated_at.
	// Idempotent: deactivating an already-inactive bag changes nothing.
	Deactivate(ctx context.Context, id string, updatedAt time.Time) error
	UpsertBatch(ctx context.Context, bags []domain.Bag) error
}

// ReservationRepository persists reservations.
type ReservationRepository interface {
	// Create inserts the reservation and atomically decrements the bag's
	// remaining quantity, failing if not enough remains.
	Create(ctx context.Context, res *domain.Reservation) error
	GetByCode(ctx context.Context, code string) (*domain.Reservation, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Reservation, error)
	MarkCollected(ctx context.Context, code string) error
	// Cancel releases the reserved quantity back to the bag.
	Cancel(ctx context.Context, code string) error
}

// FavoriteRepository persists customer-shop favorites.
type FavoriteRepository interface {
	Add(ctx context.Context, customerID, shopID string) error
	Remove(ctx context.Context, customerID, shopID string) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Shop, error)
}
