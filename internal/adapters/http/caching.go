package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != "GET" {
			return err
		}

		// Don't override if already set
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0" // GraphQL varies wildly

		case strings.HasPrefix(path, "/v1/bags/nearby"):
			ttl = "public, max-age=60" // Availability moves fast

		case strings.HasPrefix(path, "/v1/shops/nearby"):
			ttl = "public, max-age=300" // Shop locations barely move

		case strings.Contains(path, "/reservations"):
			ttl = "private, no-store" // Never cache customer claims

		case strings.Contains(path, "/favorites"):
			ttl = "private, max-age=0"

		case strings.Contains(path, "/shops/") && strings.Contains(path, "/bags"):
			ttl = "public, max-age=30" // Shop listings flip on the sweep

		case strings.HasPrefix(path, "/v1/shops"):
			ttl = "public, max-age=600" // 10 min for shop profiles

		case strings.HasPrefix(path, "/v1/bags"):
			ttl = "public, max-age=60"

		case path == "/v1/market/stats":
			ttl = "public, max-age=60"

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=300" // 5 min default for API endpoints
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
