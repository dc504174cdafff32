// Package gemini wraps the generative image model used for enhancements.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

const (
	model = "gemini-2.5-flash-image-preview"

	// The hosting environment aborts requests after 60s; do not wait longer.
	enhanceTimeout = 60 * time.Second
)

// ErrNoImage means the model answered with neither an image nor an
// explanation.
var ErrNoImage = errors.New("no image in response")

// RefusalError carries the model's own text when it declined to produce an
// image (e.g. a safety refusal). The message is user-facing.
type RefusalError struct {
	Message string
}

func (e *RefusalError) Error() string { return e.Message }

// Image is one inline image returned by the model.
type Image struct {
	MIMEType string
	Data     []byte
}

type Client struct {
	cl *genai.Client
}

func New(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Client{cl: client}, nil
}

// Enhance sends the image plus instruction prompt and returns the first
// inline image part. A text-only answer becomes a *RefusalError; transport
// and empty responses are plain errors.
func (c *Client) Enhance(ctx context.Context, mimeType string, data []byte, prompt string) (*Image, error) {
	ctx, cancel := context.WithTimeout(ctx, enhanceTimeout)
	defer cancel()

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(data, mimeType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := c.cl.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, ErrNoImage
	}

	var refusal string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &Image{
				MIMEType: part.InlineData.MIMEType,
				Data:     part.InlineData.Data,
			}, nil
		}
		if part.Text != "" {
			refusal = part.Text
		}
	}

	if refusal != "" {
		return nil, &RefusalError{Message: refusal}
	}
	return nil, ErrNoImage
}
