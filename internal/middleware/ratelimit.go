package middleware

import (
	"github.com/climadash/climadash/internal/ingest"
	"github.com/climadash/climadash/internal/logging"
	"github.com/gofiber/fiber/v2"
)

// RateLimit rejects requests from clients over their ingest rate with 429.
// Clients are keyed by IP.
func RateLimit(limiter *ingest.RateLimiter, logger *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter.Allow(c.IP()) {
			return c.Next()
		}

		logger.Debug("Rate limit exceeded", "ip", c.IP(), "path", c.Path())
		c.Set(fiber.HeaderRetryAfter, "1")
		return fiber.NewError(fiber.StatusTooManyRequests, "Too many sensor readings, slow down")
	}
}
