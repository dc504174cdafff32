package analytics

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/sceneit/sceneit-server/imaging"
	"github.com/sceneit/sceneit-server/models"
	"github.com/sceneit/sceneit-server/store"
)

// BlobPutter uploads image bytes and returns a public URL plus size.
type BlobPutter interface {
	Put(ctx context.Context, data []byte, contentType, prefix string) (string, int64, error)
}

// Recorder persists one completed enhancement: both images to blob storage,
// then a single Transformation record. Every failure here is logged and
// swallowed; the enhancement response to the user never depends on it.
type Recorder struct {
	store store.Store
	blobs BlobPutter
}

func NewRecorder(st store.Store, blobs BlobPutter) *Recorder {
	return &Recorder{store: st, blobs: blobs}
}

// RecordParams carries everything known about a finished enhancement.
type RecordParams struct {
	SessionID string
	OptIn     bool

	Original     []byte
	OriginalMIME string
	Enhanced     []byte
	EnhancedMIME string

	CustomPrompt string
	StyleKey     string
	StyleName    string

	ProcessingTimeMs int64

	UserAgent string
	IPHash    string
	Referrer  string
}

// Record returns the new transformation id, or "" when persistence was
// skipped or failed.
func (r *Recorder) Record(ctx context.Context, p RecordParams) string {
	if !p.OptIn || p.SessionID == "" || r == nil || r.store == nil || r.blobs == nil {
		return ""
	}

	var (
		originalURL, enhancedURL string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, _, err := r.blobs.Put(gctx, p.Original, p.OriginalMIME, "originals")
		originalURL = url
		return err
	})
	g.Go(func() error {
		url, _, err := r.blobs.Put(gctx, p.Enhanced, p.EnhancedMIME, "enhanced")
		enhancedURL = url
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("transformation blob upload failed: %v", err)
		return ""
	}

	// Preview generation is best-effort; the gallery falls back to the full
	// enhanced image when it is missing.
	var previewURL *string
	if preview, err := imaging.Preview(p.Enhanced); err == nil {
		if url, _, err := r.blobs.Put(ctx, preview, "image/jpeg", "previews"); err == nil {
			previewURL = &url
		} else {
			log.Printf("preview upload failed: %v", err)
		}
	} else {
		log.Printf("preview generation failed: %v", err)
	}

	t := models.Transformation{
		SessionID:          p.SessionID,
		OriginalBlobURL:    &originalURL,
		EnhancedBlobURL:    &enhancedURL,
		PreviewBlobURL:     previewURL,
		PromptUsed:         optString(p.CustomPrompt),
		StyleKey:           optString(p.StyleKey),
		StyleName:          optString(p.StyleName),
		ProcessingTimeMs:   p.ProcessingTimeMs,
		OriginalSizeBytes:  int64(len(p.Original)),
		EnhancedSizeBytes:  int64(len(p.Enhanced)),
		OriginalDimensions: optString(imaging.Dimensions(p.Original)),
		EnhancedDimensions: optString(imaging.Dimensions(p.Enhanced)),
		OptIn:              true,
		UserAgent:          optString(p.UserAgent),
		IPHash:             optString(p.IPHash),
		Referrer:           optString(p.Referrer),
	}

	id, err := r.store.AppendTransformation(ctx, &t)
	if err != nil {
		log.Printf("saveTransformation error: %v", err)
		return ""
	}
	return id
}

// LogEvent appends one server-observed event, best effort.
func (r *Recorder) LogEvent(ctx context.Context, ev models.UsageEvent) {
	if r == nil || r.store == nil {
		return
	}
	if err := r.store.AppendEvents(ctx, []models.UsageEvent{ev}); err != nil {
		log.Printf("server event log error: %v", err)
	}
}
