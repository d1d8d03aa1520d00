package services

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestServiceError_Error(t *testing.T) {
	err := NewServiceError(CodeInvalidTemperature, "Invalid temperature value")

	if err.Error() != "Invalid temperature value" {
		t.Errorf("Expected 'Invalid temperature value', got '%s'", err.Error())
	}
	if err.Details != nil {
		t.Errorf("Expected nil details, got %v", err.Details)
	}
}

func TestNewServiceErrorWithDetails(t *testing.T) {
	err := NewServiceErrorWithDetails(CodeInvalidFanSpeed, "Invalid fan speed", map[string]interface{}{
		"fanSpeed": "TURBO",
	})

	if err.Code != CodeInvalidFanSpeed {
		t.Errorf("Expected code %s, got '%s'", CodeInvalidFanSpeed, err.Code)
	}
	if err.Details["fanSpeed"] != "TURBO" {
		t.Errorf("Expected fanSpeed 'TURBO', got '%v'", err.Details["fanSpeed"])
	}
}

func TestServiceError_JSON(t *testing.T) {
	data, err := json.Marshal(NewServiceError(CodeStoreUnavailable, "store unavailable"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	expected := `{"code":"STORE_UNAVAILABLE","message":"store unavailable"}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}
}

func TestAsServiceError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewServiceError(CodeInvalidRequest, "bad"))

	se, ok := AsServiceError(wrapped)
	if !ok {
		t.Fatal("Expected a ServiceError in the chain")
	}
	if se.Code != CodeInvalidRequest {
		t.Errorf("Expected code %s, got %s", CodeInvalidRequest, se.Code)
	}

	if _, ok := AsServiceError(fmt.Errorf("plain")); ok {
		t.Error("Expected no ServiceError in a plain error")
	}
}
