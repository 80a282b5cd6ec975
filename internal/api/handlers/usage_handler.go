package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postforge/internal/service"
)

type UsageHandler struct {
	cs service.CostService
}

func NewUsageHandler(cs service.CostService) *UsageHandler {
	return &UsageHandler{cs: cs}
}

// MonthlyUsage reports per-account generation counts and estimated spend
// for the current month.
func (h *UsageHandler) MonthlyUsage(c *fiber.Ctx) error {
	usage, err := h.cs.MonthlyUsage(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(usage)
}
