package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &out))
	return out
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zerolog.DebugLevel)

	log.With("component", "store").Error("write failed",
		"error", errors.New("boom"),
		"count", 3,
		42, "ignored key",
		"dangling")

	line := decodeLine(t, &buf)
	assert.Equal(t, "write failed", line["message"])
	assert.Equal(t, "store", line["component"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, float64(3), line["count"])
	assert.NotContains(t, line, "dangling")
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zerolog.WarnLevel)

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.NotZero(t, buf.Len())
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zerolog.InfoLevel)

	ctx := WithRequestID(context.Background(), "req-1")
	log.WithContext(ctx).Info("hello")

	line := decodeLine(t, &buf)
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "req-1", RequestID(ctx))
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	assert.Same(t, Global(), FromContext(context.Background()))

	nop := NewNop()
	ctx := WithLogger(context.Background(), nop)
	assert.Same(t, nop, FromContext(ctx))
}

func TestFiberMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zerolog.InfoLevel)

	app := fiber.New()
	app.Use(FiberMiddleware(log, DefaultMiddlewareConfig()))
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/api/thing", func(c *fiber.Ctx) error {
		assert.NotEmpty(t, RequestID(c.UserContext()))
		return c.SendStatus(fiber.StatusTeapot)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	assert.Zero(t, buf.Len(), "skipped path should not be logged")

	req := httptest.NewRequest("GET", "/api/thing", nil)
	req.Header.Set(fiber.HeaderXRequestID, "fixed-id")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", resp.Header.Get(fiber.HeaderXRequestID))

	line := decodeLine(t, &buf)
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "/api/thing", line["path"])
	assert.Equal(t, "fixed-id", line["request_id"])
}
