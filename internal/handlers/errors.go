package handlers

import (
	"github.com/climadash/climadash/internal/models"
	"github.com/climadash/climadash/internal/services"
	"github.com/gofiber/fiber/v2"
)

// statusForCode maps service error codes to HTTP statuses
func statusForCode(code string) int {
	switch code {
	case services.CodeInvalidRequest, services.CodeInvalidTemperature, services.CodeInvalidFanSpeed:
		return fiber.StatusBadRequest
	case services.CodeStoreUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// serviceError writes err as an ErrorResponse
func (h *Handler) serviceError(c *fiber.Ctx, err error) error {
	if svcErr, ok := services.AsServiceError(err); ok {
		return c.Status(statusForCode(svcErr.Code)).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    svcErr.Code,
				Message: svcErr.Message,
				Path:    c.Path(),
				Details: svcErr.Details,
			},
		})
	}

	h.logger.Error("Unhandled service error", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: err.Error(),
			Path:    c.Path(),
		},
	})
}
