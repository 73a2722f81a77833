package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// MethodOverride lets HTML forms send PUT and DELETE as POST with a
// _method query or form field. It must be registered before any route.
func MethodOverride() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return c.Next()
		}
		override := c.Query("_method")
		if override == "" {
			override = c.FormValue("_method")
		}
		switch m := strings.ToUpper(override); m {
		case fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
			c.Method(m)
		}
		return c.Next()
	}
}
