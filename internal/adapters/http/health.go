package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sandunt/lastbag/internal/adapters/valkey"
)

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": "dev",
		})
	}
}

// ReadyHandler reports whether the service can actually serve traffic: the
// database must answer a ping; NATS and the cache degrade gracefully but are
// still surfaced per-dependency.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string)
		ready := true

		fail := func(name, detail string) {
			checks[name] = detail
			ready = false
		}

		if deps.DB == nil {
			fail("database", "not configured")
		} else if err := deps.DB.Pool.Ping(ctx); err != nil {
			fail("database", "error: "+err.Error())
		} else {
			checks["database"] = "ok"
		}

		switch {
		case deps.NATS == nil:
			checks["nats"] = "not configured"
		case deps.NATS.IsConnected():
			checks["nats"] = "ok"
		default:
			fail("nats", "disconnected")
		}

		if deps.Cache == nil {
			checks["cache"] = "not configured"
		} else if _, err := deps.Cache.Get(ctx, "ready:probe"); err != nil && !errors.Is(err, valkey.ErrMiss) {
			fail("cache", "error: "+err.Error())
		} else {
			checks["cache"] = "ok"
		}

		status, code := "ready", 200
		if !ready {
			status, code = "not ready", 503
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
