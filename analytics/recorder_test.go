package analytics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sceneit/sceneit-server/models"
	"github.com/sceneit/sceneit-server/store"
)

type fakePutter struct {
	fail  bool
	calls []string
}

func (f *fakePutter) Put(_ context.Context, data []byte, contentType, prefix string) (string, int64, error) {
	f.calls = append(f.calls, prefix)
	if f.fail {
		return "", 0, errors.New("bucket unavailable")
	}
	return fmt.Sprintf("https://storage.example/%s/object", prefix), int64(len(data)), nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func recordParams(t *testing.T) RecordParams {
	return RecordParams{
		SessionID:        "sess-1",
		OptIn:            true,
		Original:         pngBytes(t, 12, 8),
		OriginalMIME:     "image/png",
		Enhanced:         pngBytes(t, 16, 10),
		EnhancedMIME:     "image/png",
		StyleKey:         "coastal-modern",
		StyleName:        "Coastal Modern",
		ProcessingTimeMs: 4200,
		UserAgent:        "Mozilla/5.0",
		IPHash:           "abc",
	}
}

func TestRecordPersistsTransformation(t *testing.T) {
	st := store.NewBlobStore(store.NewMemObjects())
	r := NewRecorder(st, &fakePutter{})

	id := r.Record(context.Background(), recordParams(t))
	require.NotEmpty(t, id)

	got, total, err := st.QueryTransformations(context.Background(), store.TransformationFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)

	tr := got[0]
	assert.Equal(t, id, tr.ID)
	assert.True(t, tr.OptIn)
	assert.Equal(t, "https://storage.example/originals/object", *tr.OriginalBlobURL)
	assert.Equal(t, "https://storage.example/enhanced/object", *tr.EnhancedBlobURL)
	require.NotNil(t, tr.PreviewBlobURL)
	assert.Equal(t, "https://storage.example/previews/object", *tr.PreviewBlobURL)
	assert.Equal(t, "12x8", *tr.OriginalDimensions)
	assert.Equal(t, "16x10", *tr.EnhancedDimensions)
	assert.Equal(t, int64(4200), tr.ProcessingTimeMs)
	assert.Equal(t, "coastal-modern", *tr.StyleKey)
	assert.Nil(t, tr.PromptUsed)
}

func TestRecordSkipsWithoutConsent(t *testing.T) {
	st := store.NewBlobStore(store.NewMemObjects())
	putter := &fakePutter{}
	r := NewRecorder(st, putter)

	p := recordParams(t)
	p.OptIn = false
	assert.Empty(t, r.Record(context.Background(), p))

	p = recordParams(t)
	p.SessionID = ""
	assert.Empty(t, r.Record(context.Background(), p))

	// No uploads happen when the record is skipped.
	assert.Empty(t, putter.calls)

	_, total, err := st.QueryTransformations(context.Background(), store.TransformationFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestRecordSkipsWithoutDependencies(t *testing.T) {
	assert.Empty(t, NewRecorder(nil, &fakePutter{}).Record(context.Background(), recordParams(t)))
	st := store.NewBlobStore(store.NewMemObjects())
	assert.Empty(t, NewRecorder(st, nil).Record(context.Background(), recordParams(t)))
}

func TestRecordUploadFailureReturnsEmptyID(t *testing.T) {
	st := store.NewBlobStore(store.NewMemObjects())
	r := NewRecorder(st, &fakePutter{fail: true})

	assert.Empty(t, r.Record(context.Background(), recordParams(t)))

	_, total, err := st.QueryTransformations(context.Background(), store.TransformationFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestRecordSurvivesUndecodableEnhancedImage(t *testing.T) {
	st := store.NewBlobStore(store.NewMemObjects())
	r := NewRecorder(st, &fakePutter{})

	p := recordParams(t)
	p.Enhanced = []byte("not an image")

	id := r.Record(context.Background(), p)
	require.NotEmpty(t, id)

	got, _, err := st.QueryTransformations(context.Background(), store.TransformationFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	// Preview and dimensions are best-effort extras.
	assert.Nil(t, got[0].PreviewBlobURL)
	assert.Nil(t, got[0].EnhancedDimensions)
	assert.Equal(t, int64(len(p.Enhanced)), got[0].EnhancedSizeBytes)
}

func TestLogEventAppends(t *testing.T) {
	st := store.NewBlobStore(store.NewMemObjects())
	r := NewRecorder(st, &fakePutter{})

	r.LogEvent(context.Background(), models.UsageEvent{
		SessionID: "sess-1",
		EventType: models.EventEnhanceComplete,
	})

	events, err := st.EventsBetween(context.Background(),
		time.Now().UTC().Add(-time.Minute), time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventEnhanceComplete, events[0].EventType)
}
