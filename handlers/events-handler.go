package handler

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/sceneit/sceneit-server/analytics"
)

type eventsRequest struct {
	Events []analytics.RawEvent `json:"events"`
}

// IngestEvents accepts one telemetry flush. The body is parsed as JSON no
// matter what content-type the client managed to set (sendBeacon ships
// text/plain), and the response is {ok: true} unconditionally: telemetry
// must never surface an error or trigger client retries.
func (h *Handler) IngestEvents(c *fiber.Ctx) error {
	ack := fiber.Map{"ok": true}

	var req eventsRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		log.Printf("events ingestion: bad body: %v", err)
		return c.JSON(ack)
	}
	if len(req.Events) == 0 || h.Store == nil {
		return c.JSON(ack)
	}

	events := analytics.NormalizeEvents(req.Events, analytics.HashIP(clientIP(c)), c.Get("User-Agent"))
	if err := h.Store.AppendEvents(c.Context(), events); err != nil {
		log.Printf("saveEvents error: %v", err)
	}
	return c.JSON(ack)
}
