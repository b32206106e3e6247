package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sandunt/lastbag/internal/core/domain"
)

// ReservationRepo implements ports.ReservationRepository with pgx.
type ReservationRepo struct {
	db *DB
}

// NewReservationRepo creates a new ReservationRepo.
func NewReservationRepo(db *DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

// Create inserts the reservation and decrements the bag's remaining quantity
// in one transaction. The conditional UPDATE is the concurrency guard: two
// customers racing for the last unit serialize on the row and the loser sees
// zero rows updated.
func (r *ReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE bags
		SET remaining_quantity = remaining_quantity - $2,
		    is_available = (remaining_quantity - $2 > 0),
		    updated_at = now()
		WHERE id = $1 AND is_active AND is_available AND remaining_quantity >= $2
	`, res.BagID, res.Quantity)
	if err != nil {
		return fmt.Errorf("decrement quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bag %s has insufficient quantity", res.BagID)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO reservations (bag_id, customer_id, quantity, pickup_code, status, reserved_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, res.BagID, res.CustomerID, res.Quantity, res.PickupCode, res.Status, res.ReservedAt).Scan(&res.ID)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByCode returns a reservation by its pickup code.
func (r *ReservationRepo) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	var res domain.Reservation
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, bag_id, customer_id, quantity, pickup_code, status, reserved_at, collected_at
		FROM reservations WHERE pickup_code = $1
	`, code).Scan(
		&res.ID, &res.BagID, &res.CustomerID, &res.Quantity,
		&res.PickupCode, &res.Status, &res.ReservedAt, &res.CollectedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListByCustomer returns a customer's reservations, newest first.
func (r *ReservationRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Reservation, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, bag_id, customer_id, quantity, pickup_code, status, reserved_at, collected_at
		FROM reservations
		WHERE customer_id = $1
		ORDER BY reserved_at DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(
			&res.ID, &res.BagID, &res.CustomerID, &res.Quantity,
			&res.PickupCode, &res.Status, &res.ReservedAt, &res.CollectedAt,
		); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

// MarkCollected transitions a pending or confirmed reservation to collected.
func (r *ReservationRepo) MarkCollected(ctx context.Context, code string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE reservations
		SET status = 'collected', collected_at = now()
		WHERE pickup_code = $1 AND status IN ('pending', 'confirmed')
	`, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no collectable reservation with code %s", code)
	}
	return nil
}

// Cancel marks the reservation cancelled and releases its quantity back to
// the bag in one transaction.
func (r *ReservationRepo) Cancel(ctx context.Context, code string) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var bagID string
	var quantity int
	err = tx.QueryRow(ctx, `
		UPDATE reservations
		SET status = 'cancelled'
		WHERE pickup_code = $1 AND status IN ('pending', 'confirmed')
		RETURNING bag_id, quantity
	`, code).Scan(&bagID, &quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("no cancellable reservation with code %s", code)
	}
	if err != nil {
		return fmt.Errorf("cancel reservation: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE bags
		SET remaining_quantity = remaining_quantity + $2,
		    is_available = is_active,
		    updated_at = now()
		WHERE id = $1
	`, bagID, quantity)
	if err != nil {
		return fmt.Errorf("release quantity: %w", err)
	}

	return tx.Commit(ctx)
}
