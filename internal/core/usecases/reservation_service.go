package usecases

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/sandunt/lastbag/internal/core/domain"
	"github.com/sandunt/lastbag/internal/core/ports"
)

// ReservationService handles customer claims on bags.
type ReservationService struct {
	reservations ports.ReservationRepository
	bags         ports.BagRepository
	notifier     ports.NotificationService
	publisher    ports.EventPublisher
}

// NewReservationService creates a new ReservationService. notifier and
// publisher may be nil.
func NewReservationService(
	reservations ports.ReservationRepository,
	bags ports.BagRepository,
	notifier ports.NotificationService,
	publisher ports.EventPublisher,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		bags:         bags,
		notifier:     notifier,
		publisher:    publisher,
	}
}

// Reserve claims quantity units of a bag for a customer and hands back a
// pickup code. The bag must classify as live at the time of the call; the
// repository enforces the quantity decrement atomically.
func (s *ReservationService) Reserve(ctx context.Context, customerID, bagID string, quantity int) (*domain.Reservation, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	bag, err := s.bags.GetByID(ctx, bagID)
	if err != nil {
		return nil, fmt.Errorf("load bag: %w", err)
	}
	if status := domain.Classify(bag, time.Now()); status != domain.BagLive {
		return nil, fmt.Errorf("bag %s is %s, not open for reservations", bagID, status)
	}
	if quantity > bag.RemainingQuantity {
		return nil, fmt.Errorf("only %d left in bag %s", bag.RemainingQuantity, bagID)
	}

	code, err := generatePickupCode()
	if err != nil {
		return nil, fmt.Errorf("generate pickup code: %w", err)
	}

	res := &domain.Reservation{
		BagID:      bagID,
		CustomerID: customerID,
		Quantity:   quantity,
		PickupCode: code,
		Status:     domain.ReservationPending,
		ReservedAt: time.Now(),
	}

	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	// Broadcast and notify (best-effort)
	if s.publisher != nil {
		_ = s.publisher.PublishReservationCreated(ctx, res)
	}
	if s.notifier != nil {
		title := "Bag reserved!"
		body := fmt.Sprintf("Show code %s at pickup. Collection window %s–%s.",
			code, bag.CollectionWindow.Start, bag.CollectionWindow.End)
		_ = s.notifier.SendPush(ctx, customerID, title, body)
	}

	return res, nil
}

// Collect marks a reservation as picked up.
func (s *ReservationService) Collect(ctx context.Context, code string) error {
	if code == "" {
		return fmt.Errorf("pickup code must not be empty")
	}
	return s.reservations.MarkCollected(ctx, code)
}

// Cancel releases the reservation and its quantity back to the bag.
func (s *ReservationService) Cancel(ctx context.Context, code string) error {
	if code == "" {
		return fmt.Errorf("pickup code must not be empty")
	}
	return s.reservations.Cancel(ctx, code)
}

// GetByCode returns a single reservation.
func (s *ReservationService) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	return s.reservations.GetByCode(ctx, code)
}

// ListByCustomer returns a customer's reservations, newest first.
func (s *ReservationService) ListByCustomer(ctx context.Context, customerID string) ([]domain.Reservation, error) {
	return s.reservations.ListByCustomer(ctx, customerID)
}

func generatePickupCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "LB-" + hex.EncodeToString(b), nil
}
