package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sceneit/sceneit-server/analytics"
	"github.com/sceneit/sceneit-server/blobstore"
	"github.com/sceneit/sceneit-server/config"
	"github.com/sceneit/sceneit-server/gemini"
	"github.com/sceneit/sceneit-server/store"
)

// Enhancer is the external generative-image collaborator.
type Enhancer interface {
	Enhance(ctx context.Context, mimeType string, data []byte, prompt string) (*gemini.Image, error)
}

// Handler carries the constructed dependencies for every route. Store and
// Enhancer may be nil when their configuration is absent; each handler
// degrades accordingly instead of failing startup.
type Handler struct {
	Cfg      config.App
	Store    store.Store
	Enhancer Enhancer
	Recorder *analytics.Recorder
}

func New(cfg config.App, st store.Store, blobs *blobstore.Client, enhancer Enhancer) *Handler {
	var putter analytics.BlobPutter
	if blobs != nil {
		putter = blobs
	}
	return &Handler{
		Cfg:      cfg,
		Store:    st,
		Enhancer: enhancer,
		Recorder: analytics.NewRecorder(st, putter),
	}
}

// clientIP prefers the first X-Forwarded-For hop, the way the app has always
// been deployed behind a proxy.
func clientIP(c *fiber.Ctx) string {
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return c.IP()
}
