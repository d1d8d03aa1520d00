package handlers

import "github.com/gofiber/fiber/v2"

// GetAnalytics handles GET /api/analytics
func (h *Handler) GetAnalytics(c *fiber.Ctx) error {
	resp, err := h.analyticsService.Compute(c.UserContext())
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(resp)
}
