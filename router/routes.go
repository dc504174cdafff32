package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/sceneit/sceneit-server/config"
	handler "github.com/sceneit/sceneit-server/handlers"
	"github.com/sceneit/sceneit-server/middleware"
)

func SetupRoutes(app *fiber.App, h *handler.Handler, cfg config.App) {
	api := app.Group("/api", logger.New())

	api.Post("/enhance", h.Enhance)
	api.Post("/events", h.IngestEvents)
	api.Get("/gallery", h.Gallery)
	api.Get("/styles", h.Styles)

	// Admin
	admin := api.Group("/admin")
	admin.Post("/auth", h.AdminLogin)
	admin.Get("/auth", h.AdminCheck)
	admin.Get("/stats", middleware.AdminOnly(cfg), h.AdminStats)
	admin.Get("/export", middleware.AdminOnly(cfg), h.AdminExport)
}
