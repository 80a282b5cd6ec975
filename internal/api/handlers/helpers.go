package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postforge/internal/apperrors"
)

// errorJSON translates typed service errors into the right HTTP status.
// Anything unrecognized is a 500.
func errorJSON(c *fiber.Ctx, err error) error {
	var notFound *apperrors.NotFoundError
	var duplicate *apperrors.DuplicateWeekError
	var invalidState *apperrors.InvalidStateError
	var validation *apperrors.ValidationError

	switch {
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &duplicate):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &invalidState):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
