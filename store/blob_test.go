package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sceneit/sceneit-server/models"
)

func seedBlobStore(t *testing.T) *BlobStore {
	t.Helper()
	return NewBlobStore(NewMemObjects())
}

func TestBlobAppendTransformationAssignsID(t *testing.T) {
	s := seedBlobStore(t)
	ctx := context.Background()

	tr := &models.Transformation{SessionID: "sess-1", OptIn: true}
	id, err := s.AppendTransformation(ctx, tr)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, tr.ID)
	assert.False(t, tr.CreatedAt.IsZero())

	// The record survives a round trip through the object store.
	got, total, err := s.QueryTransformations(ctx, TransformationFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "sess-1", got[0].SessionID)
}

func TestBlobQueryOptInOnly(t *testing.T) {
	s := seedBlobStore(t)
	ctx := context.Background()

	optedIn := &models.Transformation{SessionID: "a", OptIn: true}
	_, err := s.AppendTransformation(ctx, optedIn)
	require.NoError(t, err)
	_, err = s.AppendTransformation(ctx, &models.Transformation{SessionID: "b", OptIn: false})
	require.NoError(t, err)

	got, total, err := s.QueryTransformations(ctx, TransformationFilter{OptInOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)
	assert.Equal(t, optedIn.ID, got[0].ID)
}

func TestBlobQueryPaginationReassemblesSet(t *testing.T) {
	s := seedBlobStore(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		tr := &models.Transformation{
			SessionID: "sess",
			OptIn:     true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		_, err := s.AppendTransformation(ctx, tr)
		require.NoError(t, err)
	}

	var seen []string
	for page := 1; ; page++ {
		got, total, err := s.QueryTransformations(ctx, TransformationFilter{Page: page, PerPage: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		if len(got) == 0 {
			break
		}
		for _, tr := range got {
			seen = append(seen, tr.ID)
		}
	}

	// Pages partition the result set: 3 + 3 + 1, newest first, no repeats.
	assert.Len(t, seen, 7)
	unique := map[string]bool{}
	for _, id := range seen {
		unique[id] = true
	}
	assert.Len(t, unique, 7)
}

func TestBlobQueryNewestFirst(t *testing.T) {
	s := seedBlobStore(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	old := &models.Transformation{SessionID: "old", CreatedAt: base}
	recent := &models.Transformation{SessionID: "recent", CreatedAt: base.Add(time.Hour)}
	_, err := s.AppendTransformation(ctx, old)
	require.NoError(t, err)
	_, err = s.AppendTransformation(ctx, recent)
	require.NoError(t, err)

	got, _, err := s.QueryTransformations(ctx, TransformationFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "recent", got[0].SessionID)
	assert.Equal(t, "old", got[1].SessionID)
}

func TestBlobQueryStyleAndSearchFilters(t *testing.T) {
	s := seedBlobStore(t)
	ctx := context.Background()

	coastal := "coastal-modern"
	coastalName := "Coastal Modern"
	prompt := "Transform into a bright coastal living room"
	_, err := s.AppendTransformation(ctx, &models.Transformation{
		SessionID:  "a",
		StyleKey:   &coastal,
		StyleName:  &coastalName,
		PromptUsed: &prompt,
	})
	require.NoError(t, err)

	pure := "pure-form"
	_, err = s.AppendTransformation(ctx, &models.Transformation{SessionID: "b", StyleKey: &pure})
	require.NoError(t, err)
	_, err = s.AppendTransformation(ctx, &models.Transformation{SessionID: "c"})
	require.NoError(t, err)

	got, total, err := s.QueryTransformations(ctx, TransformationFilter{StyleKey: "coastal-modern"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].SessionID)

	// Search is case-insensitive across prompt, style name and style key.
	got, _, err = s.QueryTransformations(ctx, TransformationFilter{Search: "COASTAL"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].SessionID)

	got, _, err = s.QueryTransformations(ctx, TransformationFilter{Search: "living room"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, _, err = s.QueryTransformations(ctx, TransformationFilter{Search: "nothing-matches"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBlobQueryDateRangeHalfOpen(t *testing.T) {
	s := seedBlobStore(t)
	ctx := context.Background()

	day1 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	_, err := s.AppendTransformation(ctx, &models.Transformation{SessionID: "in", CreatedAt: day1})
	require.NoError(t, err)
	_, err = s.AppendTransformation(ctx, &models.Transformation{SessionID: "boundary", CreatedAt: day2})
	require.NoError(t, err)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	got, _, err := s.QueryTransformations(ctx, TransformationFilter{DateFrom: &from, DateTo: &day2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "in", got[0].SessionID)
}

func TestBlobAppendEventsAndEventsBetween(t *testing.T) {
	s := seedBlobStore(t)
	ctx := context.Background()

	err := s.AppendEvents(ctx, []models.UsageEvent{
		{SessionID: "sess", EventType: models.EventPageView, EventData: map[string]interface{}{"utm_source": "ads"}},
		{SessionID: "sess", EventType: models.EventDownload},
	})
	require.NoError(t, err)

	// Empty batches are a no-op, not an error.
	require.NoError(t, s.AppendEvents(ctx, nil))

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)
	events, err := s.EventsBetween(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.CreatedAt.IsZero())
	}
}

func TestBlobStatsMatchesReferenceAggregation(t *testing.T) {
	s := seedBlobStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		_, err := s.AppendTransformation(ctx, &models.Transformation{
			SessionID:        "sess",
			OptIn:            i < 2,
			ProcessingTimeMs: int64(i+1) * 1000,
		})
		require.NoError(t, err)
	}
	require.NoError(t, s.AppendEvents(ctx, []models.UsageEvent{
		{SessionID: "s", EventType: models.EventPageView},
		{SessionID: "s", EventType: models.EventUploadComplete},
	}))

	stats, err := s.Stats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalTransformations)
	assert.Equal(t, 67, stats.OptInRate)
	assert.Equal(t, int64(2000), stats.AvgProcessingTimeMs)
	assert.Equal(t, int64(1), stats.Funnel.PageViews)
	assert.Equal(t, int64(1), stats.Funnel.Uploads)
	assert.Len(t, stats.ProcessingDistribution, 4)
}
