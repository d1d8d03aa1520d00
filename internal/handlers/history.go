package handlers

import (
	"github.com/climadash/climadash/internal/models"
	"github.com/gofiber/fiber/v2"
)

// GetHistoricalData handles GET /api/historical-data?source=&limit=
func (h *Handler) GetHistoricalData(c *fiber.Ctx) error {
	req := models.NewHistoryRequest(c.Query("source"), c.Query("limit"), h.historyLimit)
	if err := req.Validate(); err != nil {
		return err
	}

	resp, err := h.historyService.Query(c.UserContext(), req)
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.JSON(resp)
}
