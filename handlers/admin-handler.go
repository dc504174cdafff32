package handler

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sceneit/sceneit-server/middleware"
	"github.com/sceneit/sceneit-server/models"
)

type loginRequest struct {
	Password string `json:"password"`
}

// AdminLogin checks the shared secret and sets the admin cookie. Wrong
// password and unconfigured password are indistinguishable to the caller.
func (h *Handler) AdminLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	if h.Cfg.AdminPassword == "" || req.Password != h.Cfg.AdminPassword {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid password"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminCookie,
		Value:    h.Cfg.AdminPassword,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	return c.JSON(fiber.Map{"success": true})
}

// AdminCheck reports whether the current cookie is valid.
func (h *Handler) AdminCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"authenticated": middleware.IsAdmin(c, h.Cfg)})
}

// AdminStats returns the full dashboard payload, recomputed per request.
func (h *Handler) AdminStats(c *fiber.Ctx) error {
	if h.Store == nil {
		return c.JSON(models.EmptyStats())
	}
	stats, err := h.Store.Stats(c.Context(), time.Now().UTC())
	if err != nil {
		log.Printf("getAdminStats error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load stats"})
	}
	return c.JSON(stats)
}
