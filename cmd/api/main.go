package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/sandunt/lastbag/internal/adapters/http"
	natsadapter "github.com/sandunt/lastbag/internal/adapters/nats"
	"github.com/sandunt/lastbag/internal/adapters/postgres"
	"github.com/sandunt/lastbag/internal/adapters/valkey"
	"github.com/sandunt/lastbag/internal/core/ports"
	"github.com/sandunt/lastbag/internal/core/usecases"
	"github.com/sandunt/lastbag/internal/pkg/config"
	"github.com/sandunt/lastbag/internal/pkg/logging"
	"github.com/sandunt/lastbag/internal/pkg/metrics"
	"github.com/sandunt/lastbag/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("lastbag-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		cacheSvc = cache
		defer cache.Close()
	}

	// NATS
	var publisher ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		publisher = nc
		defer nc.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Repos
	shopRepo := postgres.NewShopRepo(db)
	bagRepo := postgres.NewBagRepo(db)
	reservationRepo := postgres.NewReservationRepo(db)
	favoriteRepo := postgres.NewFavoriteRepo(db)

	// Use cases
	sweepSvc := usecases.NewSweepService(bagRepo, publisher,
		time.Duration(cfg.Sweep.IntervalSeconds)*time.Second)
	bagSvc := usecases.NewBagService(bagRepo, publisher, sweepSvc)
	discoverySvc := usecases.NewDiscoveryService(bagRepo, shopRepo, cacheSvc)
	shopSvc := usecases.NewShopService(shopRepo, cacheSvc)
	reservationSvc := usecases.NewReservationService(reservationRepo, bagRepo, nil, publisher)
	favoriteSvc := usecases.NewFavoriteService(favoriteRepo)

	deps := &http.Dependencies{
		Bags:         bagSvc,
		Discovery:    discoverySvc,
		Shops:        shopSvc,
		Reservations: reservationSvc,
		Favorites:    favoriteSvc,
		Sweeper:      sweepSvc,
		NATS:         natsConn,
		DB:           db,
		Cache:        cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "LastBag API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.lastbag.lk",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Feed pool stats to Prometheus
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
