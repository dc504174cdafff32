package handler

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sceneit/sceneit-server/export"
	"github.com/sceneit/sceneit-server/models"
)

// exportRangeDefaults match the dashboard's open-ended range.
var (
	exportFrom = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	exportTo   = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
)

// AdminExport streams one record projection as JSON or CSV.
func (h *Handler) AdminExport(c *fiber.Ctx) error {
	exportType := c.Query("type", export.TypeTransformations)
	format := c.Query("format", "json")

	from, to := exportFrom, exportTo
	f, t := parseDateRange(c.Query("date_from"), c.Query("date_to"))
	if f != nil {
		from = *f
	}
	if t != nil {
		to = *t
	}

	var (
		transformations []models.Transformation
		events          []models.UsageEvent
		err             error
	)
	if h.Store != nil {
		switch exportType {
		case export.TypeTransformations:
			transformations, err = h.Store.TransformationsBetween(c.Context(), from, to)
		default:
			events, err = h.Store.EventsBetween(c.Context(), from, to)
		}
		if err != nil {
			log.Printf("exportData error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Export failed"})
		}
	}

	ds := export.Build(exportType, transformations, events)

	if format == "csv" {
		body, err := export.EncodeCSV(ds)
		if err != nil {
			log.Printf("export CSV encode error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Export failed"})
		}
		filename := fmt.Sprintf("sceneit-%s-%s.csv", exportType, time.Now().UTC().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
		return c.SendString(body)
	}

	return c.JSON(ds.Rows)
}
