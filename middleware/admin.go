package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sceneit/sceneit-server/config"
)

// AdminCookie is the shared-secret admin session cookie.
const AdminCookie = "sceneit_admin"

// AdminOnly guards the admin surface with the shared-secret cookie. An
// unconfigured password fails closed: the surface is simply unreachable.
// The 401 deliberately carries no detail beyond "Unauthorized".
func AdminOnly(cfg config.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsAdmin(c, cfg) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		return c.Next()
	}
}

func IsAdmin(c *fiber.Ctx, cfg config.App) bool {
	return cfg.AdminPassword != "" && c.Cookies(AdminCookie) == cfg.AdminPassword
}
