package postgres

import (
	"context"

	"github.com/sandunt/lastbag/internal/core/domain"
)

// ShopRepo implements ports.ShopRepository with pgx.
type ShopRepo struct {
	db *DB
}

// NewShopRepo creates a new ShopRepo.
func NewShopRepo(db *DB) *ShopRepo {
	return &ShopRepo{db: db}
}

// Upsert inserts or updates a single shop.
func (r *ShopRepo) Upsert(ctx context.Context, s *domain.Shop) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO shops (id, name, description, address, location, phone, opening_hours, rating, is_active)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4,
		        ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description,
		    address = EXCLUDED.address, location = EXCLUDED.location,
		    phone = EXCLUDED.phone, opening_hours = EXCLUDED.opening_hours,
		    rating = EXCLUDED.rating, is_active = EXCLUDED.is_active,
		    updated_at = now()
		RETURNING id
	`, s.ID, s.Name, s.Description, s.Address, s.Location.Lon, s.Location.Lat,
		s.Phone, s.OpeningHours, s.Rating, s.IsActive).Scan(&s.ID)
}

// GetByID returns a shop by UUID.
func (r *ShopRepo) GetByID(ctx context.Context, id string) (*domain.Shop, error) {
	var s domain.Shop
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(description, ''), COALESCE(address, ''),
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       COALESCE(phone, ''), COALESCE(opening_hours, ''), rating, is_active,
		       created_at, updated_at
		FROM shops WHERE id = $1
	`, id).Scan(
		&s.ID, &s.Name, &s.Description, &s.Address,
		&s.Location.Lat, &s.Location.Lon,
		&s.Phone, &s.OpeningHours, &s.Rating, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindNearby returns shops within radiusMeters using PostGIS ST_DWithin.
func (r *ShopRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Shop, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, COALESCE(description, ''), COALESCE(address, ''),
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       COALESCE(phone, ''), COALESCE(opening_hours, ''), rating, is_active,
		       created_at, updated_at
		FROM shops
		WHERE is_active
		  AND ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY location <-> ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography
		LIMIT $4
	`, lon, lat, radiusMeters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShops(rows)
}

// List returns up to limit shops ordered by name.
func (r *ShopRepo) List(ctx context.Context, limit int) ([]domain.Shop, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, COALESCE(description, ''), COALESCE(address, ''),
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       COALESCE(phone, ''), COALESCE(opening_hours, ''), rating, is_active,
		       created_at, updated_at
		FROM shops
		WHERE is_active
		ORDER BY name
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShops(rows)
}

type shopRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanShops(rows shopRows) ([]domain.Shop, error) {
	var shops []domain.Shop
	for rows.Next() {
		var s domain.Shop
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Description, &s.Address,
			&s.Location.Lat, &s.Location.Lon,
			&s.Phone, &s.OpeningHours, &s.Rating, &s.IsActive,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		shops = append(shops, s)
	}
	return shops, rows.Err()
}
