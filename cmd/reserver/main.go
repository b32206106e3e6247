package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/sandunt/lastbag/internal/adapters/nats"
	"github.com/sandunt/lastbag/internal/adapters/postgres"
	"github.com/sandunt/lastbag/internal/core/ports"
	"github.com/sandunt/lastbag/internal/core/usecases"
	"github.com/sandunt/lastbag/internal/pkg/config"
	"github.com/sandunt/lastbag/internal/pkg/logging"
	"github.com/sandunt/lastbag/internal/workflows"
)

func main() {
	cfg, err := config.Load("lastbag-reserver")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("info", "json")

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	var publisher ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		publisher = nc
		defer nc.Close()
	}

	bagRepo := postgres.NewBagRepo(db)
	reservationRepo := postgres.NewReservationRepo(db)
	reservationSvc := usecases.NewReservationService(reservationRepo, bagRepo, nil, publisher)

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.ReservationWorkflow)
	w.RegisterActivity(&workflows.ReservationActivities{
		ReservationService: reservationSvc,
		Reservations:       reservationRepo,
		Publisher:          publisher,
	})

	log.Println("reservation worker started")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
