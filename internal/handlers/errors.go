package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/ecomm/internal/services"
)

// ErrorHandler renders every failure as {"success": false, "message": ...}.
// Unexpected errors are logged and reported with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, message := classify(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Method(), c.Path(), err)
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func classify(err error) (int, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		return fiber.StatusInternalServerError, "internal server error"
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, svcErr.Message
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, svcErr.Message
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized, svcErr.Message
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict, svcErr.Message
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrEmptyCart):
		return fiber.StatusBadRequest, svcErr.Message
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}
