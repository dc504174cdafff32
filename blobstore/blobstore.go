// Package blobstore uploads image bytes to Google Cloud Storage and hands
// back public URLs. An unconfigured bucket is a valid state: New returns a
// nil client and callers skip persistence.
package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

const uploadTimeout = 50 * time.Second

type Client struct {
	cl     *storage.Client
	bucket string
}

// New creates the uploader, or (nil, nil) when no bucket is configured.
func New(ctx context.Context, bucket string) (*Client, error) {
	if bucket == "" {
		return nil, nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Client{cl: client, bucket: bucket}, nil
}

// Put writes one object under prefix/ with a generated name and returns its
// public URL and size.
func (c *Client) Put(ctx context.Context, data []byte, contentType, prefix string) (string, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	objectPath := fmt.Sprintf("%s/%s.%s", prefix, uuid.NewString(), extensionFor(contentType))

	wc := c.cl.Bucket(c.bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, bytes.NewReader(data)); err != nil {
		return "", 0, fmt.Errorf("io.Copy: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", 0, fmt.Errorf("Writer.Close: %w", err)
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucket, objectPath)
	return url, int64(len(data)), nil
}

func (c *Client) Close() error { return c.cl.Close() }

func extensionFor(contentType string) string {
	ext := strings.TrimPrefix(contentType, "image/")
	if ext == "" || ext == contentType {
		return "bin"
	}
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}
