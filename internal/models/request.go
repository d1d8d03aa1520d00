package models

import (
	"strings"

	"github.com/climadash/climadash/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// SensorDataRequest is the body of POST /api/sensor-data. Values are kept
// raw so numbers and numeric strings are both accepted.
type SensorDataRequest struct {
	Temperature interface{} `json:"temperature"`
	Humidity    interface{} `json:"humidity"`
	FanSpeed    interface{} `json:"fanSpeed"`
}

// FanSpeedName returns the fan speed field as a string, or "" when absent
// or not a string.
func (r *SensorDataRequest) FanSpeedName() string {
	s, _ := r.FanSpeed.(string)
	return s
}

// HistoryRequest represents a history query
type HistoryRequest struct {
	Source   string
	Limit    int
	LimitSet bool // limit was given explicitly
}

// NewHistoryRequest builds a history request from query parameters.
// A missing source means "all"; a missing or unreadable limit means defaultLimit.
func NewHistoryRequest(source, limit string, defaultLimit int) *HistoryRequest {
	req := &HistoryRequest{
		Source: strings.ToLower(strings.TrimSpace(source)),
		Limit:  defaultLimit,
	}
	if req.Source == "" {
		req.Source = utils.SourceAll
	}
	if strings.TrimSpace(limit) != "" {
		req.LimitSet = true
		req.Limit = utils.ParseIntOr(limit, defaultLimit)
	}
	return req
}

// Validate validates the history request
func (r *HistoryRequest) Validate() error {
	switch r.Source {
	case utils.SourceRealtime, utils.SourceDataset, utils.SourceAll:
	default:
		return &fiber.Error{
			Code:    fiber.StatusBadRequest,
			Message: "source must be one of: realtime, dataset, all",
		}
	}

	if r.Limit < 0 {
		return &fiber.Error{
			Code:    fiber.StatusBadRequest,
			Message: "limit cannot be negative",
		}
	}

	if r.Limit > utils.MaxHistoryLimit {
		return &fiber.Error{
			Code:    fiber.StatusBadRequest,
			Message: "limit cannot exceed 100000",
		}
	}

	return nil
}
