package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sceneit/sceneit-server/models"
)

const (
	transformationsObject = "data/transformations.json"
	eventsObject          = "data/usage_events.json"
)

// BlobStore keeps each collection as one JSON array object. Every append is a
// read-modify-write of the whole collection: the in-process mutex serializes
// writers within this process, but two processes (or serverless instances)
// writing concurrently still race and the last writer wins for the entire
// collection. This is the legacy/degraded deployment mode; prefer the SQL
// backends anywhere write concurrency is real.
type BlobStore struct {
	objects ObjectStore
	mu      sync.Mutex
}

func NewBlobStore(objects ObjectStore) *BlobStore {
	return &BlobStore{objects: objects}
}

func (s *BlobStore) AppendTransformation(ctx context.Context, t *models.Transformation) (string, error) {
	stampTransformation(t)

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readTransformations(ctx)
	if err != nil {
		return "", err
	}
	all = append(all, *t)
	if err := s.writeJSON(ctx, transformationsObject, all); err != nil {
		return "", err
	}
	return t.ID, nil
}

func (s *BlobStore) AppendEvents(ctx context.Context, events []models.UsageEvent) error {
	if len(events) == 0 {
		return nil
	}
	for i := range events {
		stampEvent(&events[i])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readEvents(ctx)
	if err != nil {
		return err
	}
	all = append(all, events...)
	return s.writeJSON(ctx, eventsObject, all)
}

func (s *BlobStore) QueryTransformations(ctx context.Context, f TransformationFilter) ([]models.Transformation, int64, error) {
	f.normalize()

	all, err := s.readTransformations(ctx)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]models.Transformation, 0, len(all))
	for _, t := range all {
		if matchesFilter(t, f) {
			matched = append(matched, t)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := (f.Page - 1) * f.PerPage
	if start >= len(matched) {
		return []models.Transformation{}, total, nil
	}
	end := start + f.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func matchesFilter(t models.Transformation, f TransformationFilter) bool {
	if f.OptInOnly && !t.OptIn {
		return false
	}
	if f.StyleKey != "" && (t.StyleKey == nil || *t.StyleKey != f.StyleKey) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !containsFold(t.PromptUsed, needle) &&
			!containsFold(t.StyleName, needle) &&
			!containsFold(t.StyleKey, needle) {
			return false
		}
	}
	if f.DateFrom != nil && t.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && !t.CreatedAt.Before(*f.DateTo) {
		return false
	}
	return true
}

func containsFold(s *string, lowerNeedle string) bool {
	return s != nil && strings.Contains(strings.ToLower(*s), lowerNeedle)
}

// Stats does a full scan of both collections; dashboard loads are O(total
// records) on this backend.
func (s *BlobStore) Stats(ctx context.Context, now time.Time) (*models.AdminStats, error) {
	transformations, err := s.readTransformations(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.readEvents(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeStats(transformations, events, now), nil
}

func (s *BlobStore) TransformationsBetween(ctx context.Context, from, to time.Time) ([]models.Transformation, error) {
	all, err := s.readTransformations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Transformation, 0, len(all))
	for _, t := range all {
		if !t.CreatedAt.Before(from) && t.CreatedAt.Before(to) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *BlobStore) EventsBetween(ctx context.Context, from, to time.Time) ([]models.UsageEvent, error) {
	all, err := s.readEvents(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.UsageEvent, 0, len(all))
	for _, e := range all {
		if !e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *BlobStore) Close() error { return s.objects.Close() }

func (s *BlobStore) readTransformations(ctx context.Context) ([]models.Transformation, error) {
	data, err := s.objects.Read(ctx, transformationsObject)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", transformationsObject, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var out []models.Transformation
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", transformationsObject, err)
	}
	return out, nil
}

func (s *BlobStore) readEvents(ctx context.Context) ([]models.UsageEvent, error) {
	data, err := s.objects.Read(ctx, eventsObject)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", eventsObject, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var out []models.UsageEvent
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", eventsObject, err)
	}
	return out, nil
}

func (s *BlobStore) writeJSON(ctx context.Context, name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := s.objects.Write(ctx, name, data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
