package postgres

import (
	"context"

	"github.com/sandunt/lastbag/internal/core/domain"
)

// FavoriteRepo implements ports.FavoriteRepository with pgx.
type FavoriteRepo struct {
	db *DB
}

// NewFavoriteRepo creates a new FavoriteRepo.
func NewFavoriteRepo(db *DB) *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

// Add marks a shop as a favorite. Re-adding is a no-op.
func (r *FavoriteRepo) Add(ctx context.Context, customerID, shopID string) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO favorites (customer_id, shop_id)
		VALUES ($1, $2)
		ON CONFLICT (customer_id, shop_id) DO NOTHING
	`, customerID, shopID)
	return err
}

// Remove drops a favorite. Removing a non-favorite is a no-op.
func (r *FavoriteRepo) Remove(ctx context.Context, customerID, shopID string) error {
	_, err := r.db.Pool.Exec(ctx, `
		DELETE FROM favorites WHERE customer_id = $1 AND shop_id = $2
	`, customerID, shopID)
	return err
}

// ListByCustomer returns the shops the customer follows.
func (r *FavoriteRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Shop, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT s.id, s.name, COALESCE(s.description, ''), COALESCE(s.address, ''),
		       ST_Y(s.location::geometry) as lat,
		       ST_X(s.location::geometry) as lon,
		       COALESCE(s.phone, ''), COALESCE(s.opening_hours, ''), s.rating, s.is_active,
		       s.created_at, s.updated_at
		FROM favorites f JOIN shops s ON s.id = f.shop_id
		WHERE f.customer_id = $1
		ORDER BY f.created_at DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShops(rows)
}
