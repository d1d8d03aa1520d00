package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := metrics.New()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logging.NewNop())})
	app.Use(Metrics(m))
	app.Get("/api/analytics", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/api/historical-data", func(c *fiber.Ctx) error { return fiber.ErrBadRequest })
	app.Get("/metrics", m.Handler())

	for _, path := range []string{"/api/analytics", "/api/analytics", "/api/historical-data"} {
		_, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `climadash_http_requests_total{method="GET",route="/api/analytics",status="200"} 2`)
	assert.Contains(t, string(body), `climadash_http_requests_total{method="GET",route="/api/historical-data",status="400"} 1`)
}

func TestMetrics_Nil(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics(nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
