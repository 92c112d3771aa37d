package utils

import (
	fiber "github.com/gofiber/fiber/v2"
)

// MakeHTTPHandleFunc binds a dependency to a handler that needs it
func MakeHTTPHandleFunc[S any](handler func(c *fiber.Ctx, store S) error, store S) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := handler(c, store); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": err.Error()})
		}
		return nil
	}
}
