package workflows

import (
	"context"
	"fmt"
	"log"

	"github.com/sandunt/lastbag/internal/core/ports"
	"github.com/sandunt/lastbag/internal/core/usecases"
)

// ReservationActivities holds the activity implementations for the reservation workflow.
type ReservationActivities struct {
	ReservationService *usecases.ReservationService
	Reservations       ports.ReservationRepository
	Publisher          ports.EventPublisher
	Notifier           ports.NotificationService
}

// ClaimBag reserves quantity units of the bag and returns the pickup code.
func (a *ReservationActivities) ClaimBag(ctx context.Context, customerID, bagID string, quantity int) (string, error) {
	res, err := a.ReservationService.Reserve(ctx, customerID, bagID, quantity)
	if err != nil {
		return "", fmt.Errorf("reserve bag %s: %w", bagID, err)
	}
	return res.PickupCode, nil
}

// SendPickupCode sends the pickup code to the customer.
func (a *ReservationActivities) SendPickupCode(ctx context.Context, customerID, bagID, code string) error {
	if a.Notifier == nil {
		log.Printf("PUSH (no notifier) → customer=%s bag=%s code=%s", customerID, bagID, code)
		return nil
	}
	title := "Bag reserved!"
	body := fmt.Sprintf("Show code %s at pickup.", code)
	return a.Notifier.SendPush(ctx, customerID, title, body)
}

// ReleaseClaim cancels the reservation and returns its quantity to the bag
// (saga compensation / rollback).
func (a *ReservationActivities) ReleaseClaim(ctx context.Context, code string) error {
	if err := a.Reservations.Cancel(ctx, code); err != nil {
		return fmt.Errorf("release claim %s: %w", code, err)
	}
	log.Printf("Reservation %s released (saga compensation)", code)
	return nil
}

// AnnounceReservation publishes the confirmed reservation to the broker.
func (a *ReservationActivities) AnnounceReservation(ctx context.Context, code string) error {
	if a.Publisher == nil {
		return nil
	}
	res, err := a.Reservations.GetByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("load reservation %s: %w", code, err)
	}
	return a.Publisher.PublishReservationCreated(ctx, res)
}
