package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"silkmarket/internal/domain"
	applog "silkmarket/internal/log"
)

// writeError maps service error kinds to API responses. Validation failures
// and missing entities carry their message; anything else is opaque.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case domain.IsValidation(err):
		applog.Security(c, "validation.fail", map[string]any{"error": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case domain.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		applog.Error(c, "persistence.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}

// ErrorHandler is the fiber-level catch-all: JSON for the API, a friendly
// page everywhere else. Internals never reach the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	applog.Error(c, "server.error", err, nil)

	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		msg := "internal server error"
		if fe != nil && code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}

	if rerr := c.Status(code).Render("notfound", fiber.Map{
		"Message": "Something went wrong. Please try again.",
	}); rerr != nil {
		return c.Status(code).SendString("Something went wrong. Please try again.")
	}
	return nil
}
