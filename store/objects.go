package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"cloud.google.com/go/storage"
)

// ObjectStore is the minimal blob surface the blob-JSON backend needs: whole
// objects read and rewritten by name. A missing object reads as (nil, nil).
type ObjectStore interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Close() error
}

type gcsObjects struct {
	cl     *storage.Client
	bucket string
}

func newGCSObjects(ctx context.Context, bucket string) (ObjectStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("DATA_BUCKET is required for the blob backend")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &gcsObjects{cl: client, bucket: bucket}, nil
}

func (g *gcsObjects) Read(ctx context.Context, name string) ([]byte, error) {
	rc, err := g.cl.Bucket(g.bucket).Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("object reader: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("object read: %w", err)
	}
	return data, nil
}

func (g *gcsObjects) Write(ctx context.Context, name string, data []byte) error {
	wc := g.cl.Bucket(g.bucket).Object(name).NewWriter(ctx)
	wc.ContentType = "application/json"
	if _, err := wc.Write(data); err != nil {
		return fmt.Errorf("object write: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %w", err)
	}
	return nil
}

func (g *gcsObjects) Close() error { return g.cl.Close() }

// MemObjects is an in-memory ObjectStore used by tests and local runs.
type MemObjects struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemObjects() *MemObjects {
	return &MemObjects{objects: map[string][]byte{}}
}

func (m *MemObjects) Read(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[name]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemObjects) Write(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(data))
	copy(out, data)
	m.objects[name] = out
	return nil
}

func (m *MemObjects) Close() error { return nil }
