package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sandunt/lastbag/internal/core/domain"
	"github.com/sandunt/lastbag/internal/pkg/geospatial"
)

// BagRepo implements ports.BagRepository with pgx.
type BagRepo struct {
	db *DB
}

// NewBagRepo creates a new BagRepo.
func NewBagRepo(db *DB) *BagRepo {
	return &BagRepo{db: db}
}

const bagColumns = `
	b.id, b.shop_id, b.title, COALESCE(b.description, ''), COALESCE(b.category, ''),
	b.original_price, b.discounted_price, b.total_quantity, b.remaining_quantity,
	to_char(b.collection_date, 'YYYY-MM-DD'),
	b.collection_start, b.collection_end,
	b.is_active, b.is_available,
	s.location::text as shop_location,
	b.created_at, b.updated_at`

// Create inserts a new bag listing.
func (r *BagRepo) Create(ctx context.Context, b *domain.Bag) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO bags (shop_id, title, description, category,
		                  original_price, discounted_price, total_quantity, remaining_quantity,
		                  collection_date, collection_start, collection_end,
		                  is_active, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::date, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, b.ShopID, b.Title, b.Description, b.Category,
		b.OriginalPrice, b.DiscountedPrice, b.TotalQuantity, b.RemainingQuantity,
		b.CollectionDate, b.CollectionWindow.Start, b.CollectionWindow.End,
		b.IsActive, b.IsAvailable).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// GetByID returns a bag by UUID, joined with its shop's location.
func (r *BagRepo) GetByID(ctx context.Context, id string) (*domain.Bag, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+bagColumns+`
		FROM bags b JOIN shops s ON s.id = b.shop_id
		WHERE b.id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bags, err := scanBags(rows)
	if err != nil {
		return nil, err
	}
	if len(bags) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &bags[0], nil
}

// ListByShop returns all of a shop's bags, newest first.
func (r *BagRepo) ListByShop(ctx context.Context, shopID string) ([]domain.Bag, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+bagColumns+`
		FROM bags b JOIN shops s ON s.id = b.shop_id
		WHERE b.shop_id = $1
		ORDER BY b.created_at DESC
	`, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBags(rows)
}

// FindNearby returns flagged-available bags within radiusMeters of the given
// point, joined with their shop's location.
func (r *BagRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Bag, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+bagColumns+`
		FROM bags b JOIN shops s ON s.id = b.shop_id
		WHERE b.is_active AND b.is_available AND b.remaining_quantity > 0
		  AND ST_DWithin(s.location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY s.location <-> ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography
		LIMIT $4
	`, lon, lat, radiusMeters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBags(rows)
}

// ListFlaggedActive returns every bag still flagged active or available.
func (r *BagRepo) ListFlaggedActive(ctx context.Context) ([]domain.Bag, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+bagColumns+`
		FROM bags b JOIN shops s ON s.id = b.shop_id
		WHERE b.is_active OR b.is_available
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBags(rows)
}

// Deactivate clears both availability flags and stamps updated_at. The WHERE
// guard makes a repeat call a no-op.
func (r *BagRepo) Deactivate(ctx context.Context, id string, updatedAt time.Time) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE bags
		SET is_active = false, is_available = false, updated_at = $2
		WHERE id = $1 AND (is_active OR is_available)
	`, id, updatedAt)
	return err
}

// UpsertBatch inserts many bags using pgx.Batch.
func (r *BagRepo) UpsertBatch(ctx context.Context, bags []domain.Bag) error {
	batch := &pgx.Batch{}
	for _, b := range bags {
		batch.Queue(`
			INSERT INTO bags (id, shop_id, title, description, category,
			                  original_price, discounted_price, total_quantity, remaining_quantity,
			                  collection_date, collection_start, collection_end,
			                  is_active, is_available)
			VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5,
			        $6, $7, $8, $9, $10::date, $11, $12, $13, $14)
			ON CONFLICT (id) DO UPDATE
			SET title = EXCLUDED.title, description = EXCLUDED.description,
			    remaining_quantity = EXCLUDED.remaining_quantity,
			    is_active = EXCLUDED.is_active, is_available = EXCLUDED.is_available,
			    updated_at = now()
		`, b.ID, b.ShopID, b.Title, b.Description, b.Category,
			b.OriginalPrice, b.DiscountedPrice, b.TotalQuantity, b.RemainingQuantity,
			b.CollectionDate, b.CollectionWindow.Start, b.CollectionWindow.End,
			b.IsActive, b.IsAvailable)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range bags {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

type bagRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanBags reads bag rows. The shop location comes back as the geography
// column's text form (hex EWKB) and goes through the coordinate resolver; a
// row whose location fails to resolve keeps a nil Location rather than
// failing the whole query.
func scanBags(rows bagRows) ([]domain.Bag, error) {
	var bags []domain.Bag
	for rows.Next() {
		var b domain.Bag
		var rawLoc *string
		if err := rows.Scan(
			&b.ID, &b.ShopID, &b.Title, &b.Description, &b.Category,
			&b.OriginalPrice, &b.DiscountedPrice, &b.TotalQuantity, &b.RemainingQuantity,
			&b.CollectionDate,
			&b.CollectionWindow.Start, &b.CollectionWindow.End,
			&b.IsActive, &b.IsAvailable,
			&rawLoc,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if rawLoc != nil {
			if p, ok := geospatial.Resolve(*rawLoc); ok {
				b.Location = &domain.GeoPoint{Lat: p.Lat, Lon: p.Lon}
			}
		}
		bags = append(bags, b)
	}
	return bags, rows.Err()
}
