package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/models"
	"github.com/gofiber/fiber/v2"
)

func TestErrorHandler_FiberError(t *testing.T) {
	logger := logging.NewNop()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
	}{
		{
			name:           "BadRequest error",
			err:            fiber.NewError(fiber.StatusBadRequest, "limit cannot be negative"),
			expectedStatus: fiber.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
			expectedMsg:    "limit cannot be negative",
		},
		{
			name:           "NotFound error",
			err:            fiber.ErrNotFound,
			expectedStatus: fiber.StatusNotFound,
			expectedCode:   "NOT_FOUND",
			expectedMsg:    "Not Found",
		},
		{
			name:           "TooManyRequests error",
			err:            fiber.ErrTooManyRequests,
			expectedStatus: fiber.StatusTooManyRequests,
			expectedCode:   "RATE_LIMITED",
			expectedMsg:    "Too Many Requests",
		},
		{
			name:           "ServiceUnavailable error",
			err:            fiber.ErrServiceUnavailable,
			expectedStatus: fiber.StatusServiceUnavailable,
			expectedCode:   "SERVICE_UNAVAILABLE",
			expectedMsg:    "Service Unavailable",
		},
		{
			name:           "Wrapped fiber error",
			err:            fmt.Errorf("validate: %w", fiber.NewError(fiber.StatusTeapot, "I'm a teapot")),
			expectedStatus: fiber.StatusTeapot,
			expectedCode:   "ERROR",
			expectedMsg:    "I'm a teapot",
		},
		{
			name:           "Generic error",
			err:            errors.New("something went wrong"),
			expectedStatus: fiber.StatusInternalServerError,
			expectedCode:   "ERROR",
			expectedMsg:    "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{
				ErrorHandler: ErrorHandler(logger),
			})

			app.Get("/test", func(c *fiber.Ctx) error {
				return tt.err
			})

			req := httptest.NewRequest("GET", "/test", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("Failed to test request: %v", err)
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, resp.StatusCode)
			}

			body, _ := io.ReadAll(resp.Body)
			var errResp models.ErrorResponse
			if err := json.Unmarshal(body, &errResp); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}

			if errResp.Error.Message != tt.expectedMsg {
				t.Errorf("Expected message %q, got %q", tt.expectedMsg, errResp.Error.Message)
			}
			if errResp.Error.Code != tt.expectedCode {
				t.Errorf("Expected code %q, got %q", tt.expectedCode, errResp.Error.Code)
			}
			if errResp.Error.Path != "/test" {
				t.Errorf("Expected path '/test', got %q", errResp.Error.Path)
			}
		})
	}
}

func TestErrorHandler_ResponseFormat(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(logging.NewNop()),
	})

	app.Get("/test", func(c *fiber.Ctx) error {
		return fiber.ErrBadRequest
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	if err != nil {
		t.Fatalf("Failed to test request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	contentType := resp.Header.Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", contentType)
	}

	body, _ := io.ReadAll(resp.Body)
	var rawResp map[string]interface{}
	if err := json.Unmarshal(body, &rawResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	errorMap, ok := rawResp["error"].(map[string]interface{})
	if !ok {
		t.Fatal("Response should have an 'error' object")
	}
	for _, key := range []string{"code", "message"} {
		if _, exists := errorMap[key]; !exists {
			t.Errorf("Error object should have %q field", key)
		}
	}
}
