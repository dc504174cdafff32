package handler

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sceneit/sceneit-server/models"
	"github.com/sceneit/sceneit-server/store"
	"github.com/sceneit/sceneit-server/styles"
)

// Gallery serves the public, paginated view of opted-in transformations.
// The opt-in filter is fixed here, never reachable from query parameters.
func (h *Handler) Gallery(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 20)
	if perPage < 1 {
		perPage = 20
	}
	if perPage > store.MaxPerPage {
		perPage = store.MaxPerPage
	}

	if h.Store == nil {
		return c.JSON(models.GalleryResponse{
			Transformations: []models.Transformation{},
			Page:            page,
			PerPage:         perPage,
		})
	}

	filter := store.TransformationFilter{
		OptInOnly: true,
		StyleKey:  c.Query("style"),
		Search:    c.Query("search"),
		Page:      page,
		PerPage:   perPage,
	}
	filter.DateFrom, filter.DateTo = parseDateRange(c.Query("date_from"), c.Query("date_to"))

	items, total, err := h.Store.QueryTransformations(c.Context(), filter)
	if err != nil {
		log.Printf("getGallery error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load gallery"})
	}
	if items == nil {
		items = []models.Transformation{}
	}

	return c.JSON(models.GalleryResponse{
		Transformations: items,
		Total:           total,
		Page:            page,
		PerPage:         perPage,
	})
}

// Styles lists the selectable preset styles for the upload UI.
func (h *Handler) Styles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"styles": styles.All()})
}

// parseDateRange interprets YYYY-MM-DD bounds, both inclusive: the upper
// bound becomes the following midnight UTC so the whole end day is covered.
func parseDateRange(fromStr, toStr string) (from, to *time.Time) {
	if t, err := time.ParseInLocation("2006-01-02", fromStr, time.UTC); err == nil {
		from = &t
	}
	if t, err := time.ParseInLocation("2006-01-02", toStr, time.UTC); err == nil {
		end := t.AddDate(0, 0, 1)
		to = &end
	}
	return from, to
}
