package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/sandunt/lastbag/internal/adapters/nats"
	"github.com/sandunt/lastbag/internal/core/domain"
	"github.com/sandunt/lastbag/internal/pkg/config"
	"github.com/sandunt/lastbag/internal/pkg/logging"
)

// Drains the reservation work queue and watches bag postings, turning both
// into customer notifications. Push delivery is logged until a provider is
// wired in.
func main() {
	cfg, err := config.Load("lastbag-notifier")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("info", "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	err = sub.SubscribeReservations(ctx, func(ctx context.Context, res *domain.Reservation) error {
		slog.Info("reservation confirmed, notifying customer",
			"customer_id", res.CustomerID,
			"bag_id", res.BagID,
			"pickup_code", res.PickupCode,
		)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe reservations: %v", err)
	}

	err = sub.SubscribeBagEvents(ctx, func(ctx context.Context, bag *domain.Bag) error {
		slog.Info("new bag posted, fanning out to followers",
			"bag_id", bag.ID,
			"shop_id", bag.ShopID,
			"title", bag.Title,
		)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe bag events: %v", err)
	}

	slog.Info("notifier started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("received signal, shutting down notifier", "signal", sig.String())
}
