package handlers

import (
	"encoding/json"

	"github.com/climadash/climadash/internal/models"
	"github.com/climadash/climadash/internal/services"
	"github.com/gofiber/fiber/v2"
)

// PostSensorData handles POST /api/sensor-data
func (h *Handler) PostSensorData(c *fiber.Ctx) error {
	var req models.SensorDataRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    services.CodeInvalidRequest,
				Message: "Invalid request body",
			},
		})
	}

	reading, err := h.sensorService.Record(c.UserContext(), &req)
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.JSON(models.SensorDataResponse{
		Success: true,
		Message: "Data received successfully",
		Data:    models.NewSensorDataView(*reading),
	})
}

// GetSensorData handles GET /api/sensor-data
func (h *Handler) GetSensorData(c *fiber.Ctx) error {
	return c.JSON(models.SensorDataResponse{
		Success: true,
		Data:    models.NewSensorDataView(h.sensorService.Latest()),
	})
}
