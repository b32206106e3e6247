package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	natsadapter "github.com/sandunt/lastbag/internal/adapters/nats"
	"github.com/sandunt/lastbag/internal/adapters/postgres"
	"github.com/sandunt/lastbag/internal/core/ports"
	"github.com/sandunt/lastbag/internal/core/usecases"
	"github.com/sandunt/lastbag/internal/pkg/config"
	"github.com/sandunt/lastbag/internal/pkg/logging"
	"github.com/sandunt/lastbag/internal/pkg/metrics"
)

func main() {
	cfg, err := config.Load("lastbag-sweeper")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// NATS — expired-bag events are best-effort, keep running without it
	var publisher ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		publisher = nc
		defer nc.Close()
	}

	sweepSvc := usecases.NewSweepService(postgres.NewBagRepo(db), publisher,
		time.Duration(cfg.Sweep.IntervalSeconds)*time.Second)

	// Expose /metrics so Prometheus can scrape the sweep counters
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/metrics", metrics.Handler())
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := app.Listen(addr); err != nil {
			slog.Error("metrics listener stopped", "error", err)
		}
	}()

	slog.Info("sweeper starting", "interval_seconds", cfg.Sweep.IntervalSeconds)

	ticker := time.NewTicker(sweepSvc.Interval())
	defer ticker.Stop()

	// Signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Run once immediately
	sweepOnce(ctx, sweepSvc, publisher)

	for {
		select {
		case <-ticker.C:
			sweepOnce(ctx, sweepSvc, publisher)
		case <-ctx.Done():
			return
		case sig := <-quit:
			slog.Info("received signal, shutting down sweeper", "signal", sig.String())
			cancel()
			_ = app.Shutdown()
			// Give an in-flight pass time to finish
			time.Sleep(2 * time.Second)
			return
		}
	}
}

func sweepOnce(ctx context.Context, svc *usecases.SweepService, publisher ports.EventPublisher) {
	start := time.Now()
	swept, err := svc.SweepAll(ctx)
	metrics.SweepDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SweepErrors.Inc()
		slog.Error("sweep pass failed", "error", err)
		return
	}
	metrics.BagsSwept.Add(float64(swept))
	slog.Info("sweep pass complete",
		"swept", swept,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	// Nudge connected clients to refresh their listings
	if publisher != nil && swept > 0 {
		payload, _ := json.Marshal(map[string]any{"event": "sweep", "swept": swept})
		_ = publisher.PublishBroadcast(ctx, payload)
	}
}
