package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireJSON rejects request bodies that are not JSON.
func RequireJSON(c *fiber.Ctx) error {
	ct := strings.ToLower(c.Get(fiber.HeaderContentType))
	if !strings.HasPrefix(ct, fiber.MIMEApplicationJSON) {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"status": "error", "message": "Content-Type must be application/json"})
	}
	return c.Next()
}
