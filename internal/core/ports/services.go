package ports

import (
	"context"

	"github.com/sandunt/lastbag/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishBagPosted(ctx context.Context, bag *domain.Bag) error
	PublishBagExpired(ctx context.Context, bagID string) error
	PublishReservationCreated(ctx context.Context, res *domain.Reservation) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeBagEvents(ctx context.Context, handler func(ctx context.Context, bag *domain.Bag) error) error
	SubscribeReservations(ctx context.Context, handler func(ctx context.Context, res *domain.Reservation) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// NotificationService sends notifications (push, email, etc.).
type NotificationService interface {
	SendPush(ctx context.Context, userID, title, body string) error
}
