package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sceneit/sceneit-server/analytics"
	"github.com/sceneit/sceneit-server/gemini"
	"github.com/sceneit/sceneit-server/models"
	"github.com/sceneit/sceneit-server/styles"
)

// MaxImageBytes bounds the decoded upload; anything larger is rejected before
// the external call.
const MaxImageBytes = 20 << 20

var dataURLPattern = regexp.MustCompile(`^data:image/(\w+);base64,(.+)$`)

type enhanceRequest struct {
	Image     string `json:"image"`
	Prompt    string `json:"prompt"`
	StyleKey  string `json:"style_key"`
	OptIn     bool   `json:"opt_in"`
	SessionID string `json:"session_id"`
}

// Enhance runs the primary user flow: validate the upload, call the model,
// return the enhanced image. Persistence and telemetry ride along but can
// never fail the response.
func (h *Handler) Enhance(c *fiber.Ctx) error {
	var req enhanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No image provided"})
	}
	if h.Cfg.GeminiAPIKey == "" || h.Enhancer == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "API key not configured"})
	}

	match := dataURLPattern.FindStringSubmatch(req.Image)
	if match == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid image format"})
	}
	mimeType := "image/" + match[1]

	original, err := base64.StdEncoding.DecodeString(match[2])
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid image format"})
	}
	if len(original) > MaxImageBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Image too large"})
	}

	prompt, styleName := styles.BuildPrompt(req.StyleKey, req.Prompt)

	started := time.Now()
	enhanced, err := h.Enhancer.Enhance(c.Context(), mimeType, original, prompt)
	processingMs := time.Since(started).Milliseconds()

	if err != nil {
		var refusal *gemini.RefusalError
		switch {
		case errors.As(err, &refusal):
			// The model explained why it produced no image; pass that on so
			// the user gets actionable feedback.
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": refusal.Message})
		case errors.Is(err, gemini.ErrNoImage):
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "No enhancement generated"})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Enhancement service unavailable. Check API key and quota."})
		}
	}

	ipHash := analytics.HashIP(clientIP(c))
	userAgent := c.Get("User-Agent")

	transformationID := h.Recorder.Record(c.Context(), analytics.RecordParams{
		SessionID:        req.SessionID,
		OptIn:            req.OptIn,
		Original:         original,
		OriginalMIME:     mimeType,
		Enhanced:         enhanced.Data,
		EnhancedMIME:     enhanced.MIMEType,
		CustomPrompt:     req.Prompt,
		StyleKey:         req.StyleKey,
		StyleName:        styleName,
		ProcessingTimeMs: processingMs,
		UserAgent:        userAgent,
		IPHash:           ipHash,
		Referrer:         c.Get("Referer"),
	})

	if req.SessionID != "" {
		ev := models.UsageEvent{
			SessionID: req.SessionID,
			EventType: models.EventEnhanceComplete,
			EventData: map[string]interface{}{
				"processing_time_ms": processingMs,
				"style_key":          req.StyleKey,
			},
			IPHash:    &ipHash,
			UserAgent: &userAgent,
		}
		if transformationID != "" {
			ev.TransformationID = &transformationID
		}
		h.Recorder.LogEvent(c.Context(), ev)
	}

	resp := fiber.Map{
		"enhanced": fmt.Sprintf("data:%s;base64,%s", enhanced.MIMEType, base64.StdEncoding.EncodeToString(enhanced.Data)),
	}
	if transformationID != "" {
		resp["transformation_id"] = transformationID
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
