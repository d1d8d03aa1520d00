package middleware

import (
	"errors"
	"time"

	"github.com/climadash/climadash/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and latencies by route
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				status = e.Code
			}
		}

		route := c.Route().Path
		if status == fiber.StatusNotFound && route == "/" && c.Path() != "/" {
			route = "unmatched"
		}

		m.ObserveRequest(route, c.Method(), status, time.Since(start))
		return err
	}
}
