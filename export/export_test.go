package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sceneit/sceneit-server/models"
)

func ptr(s string) *string { return &s }

func TestBuildUnknownTypeIsEmpty(t *testing.T) {
	ds := Build("bogus", nil, nil)
	assert.Empty(t, ds.Columns)
	assert.NotNil(t, ds.Rows)
	assert.Empty(t, ds.Rows)
}

func TestBuildNeverReturnsNilRows(t *testing.T) {
	for _, typ := range []string{TypeTransformations, TypeEvents, TypeSessions, TypeAttribution} {
		ds := Build(typ, nil, nil)
		assert.NotNil(t, ds.Rows, typ)
	}
}

func TestTransformationRows(t *testing.T) {
	created := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	ds := Build(TypeTransformations, []models.Transformation{{
		ID:                "t-1",
		CreatedAt:         created,
		SessionID:         "sess",
		PromptUsed:        ptr("make it brighter"),
		StyleKey:          ptr("pure-form"),
		ProcessingTimeMs:  3100,
		OriginalSizeBytes: 1000,
		EnhancedSizeBytes: 2000,
		OptIn:             true,
	}}, nil)

	assert.Equal(t, []string{
		"id", "created_at", "session_id", "prompt_used", "style_key", "style_name",
		"processing_time_ms", "original_size_bytes", "enhanced_size_bytes", "opt_in",
	}, ds.Columns)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "t-1", ds.Rows[0]["id"])
	assert.Equal(t, "2026-04-02T09:30:00Z", ds.Rows[0]["created_at"])
	assert.Equal(t, "make it brighter", ds.Rows[0]["prompt_used"])
	assert.Equal(t, "", ds.Rows[0]["style_name"])
	assert.Equal(t, true, ds.Rows[0]["opt_in"])
}

func TestSessionRowsDerivation(t *testing.T) {
	base := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	events := []models.UsageEvent{
		{SessionID: "early", EventType: "page_view", CreatedAt: base},
		{SessionID: "early", EventType: "download", CreatedAt: base.Add(10 * time.Minute)},
		{SessionID: "early", EventType: "page_view", CreatedAt: base.Add(5 * time.Minute)},
		{SessionID: "late", EventType: "page_view", CreatedAt: base.Add(time.Hour)},
	}

	ds := Build(TypeSessions, nil, events)
	require.Len(t, ds.Rows, 2)

	// Newest session first.
	assert.Equal(t, "late", ds.Rows[0]["session_id"])

	early := ds.Rows[1]
	assert.Equal(t, "early", early["session_id"])
	assert.Equal(t, "2026-04-02T09:00:00Z", early["first_seen"])
	assert.Equal(t, "2026-04-02T09:10:00Z", early["last_seen"])
	assert.Equal(t, int64(3), early["event_count"])
	assert.Equal(t, []string{"download", "page_view"}, early["event_types"])
}

func TestAttributionRowsGroupByUTMTuple(t *testing.T) {
	pv := func(data map[string]interface{}, referrer string) models.UsageEvent {
		e := models.UsageEvent{SessionID: "s", EventType: "page_view", EventData: data}
		if referrer != "" {
			e.Referrer = &referrer
		}
		return e
	}

	events := []models.UsageEvent{
		pv(map[string]interface{}{"utm_source": "news", "utm_medium": "email", "utm_campaign": "spring"}, "https://mail.example"),
		pv(map[string]interface{}{"utm_source": "news", "utm_medium": "email", "utm_campaign": "spring"}, "https://mail.example"),
		pv(nil, ""),
		// Only page views participate.
		{SessionID: "s", EventType: "download"},
	}

	ds := Build(TypeAttribution, nil, events)
	require.Len(t, ds.Rows, 2)

	top := ds.Rows[0]
	assert.Equal(t, "news", top["utm_source"])
	assert.Equal(t, "email", top["utm_medium"])
	assert.Equal(t, "spring", top["utm_campaign"])
	assert.Equal(t, "https://mail.example", top["referrer"])
	assert.Equal(t, int64(2), top["count"])

	direct := ds.Rows[1]
	assert.Equal(t, "none", direct["utm_source"])
	assert.Equal(t, "none", direct["utm_medium"])
	assert.Equal(t, "none", direct["utm_campaign"])
	assert.Equal(t, "", direct["referrer"])
	assert.Equal(t, int64(1), direct["count"])
}

func TestEncodeCSVRoundTripsAwkwardValues(t *testing.T) {
	created := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	prompt := "line one\nwith \"quotes\", commas, and more"
	ds := Build(TypeTransformations, []models.Transformation{{
		ID:         "t-1",
		CreatedAt:  created,
		SessionID:  "sess",
		PromptUsed: &prompt,
	}}, nil)

	out, err := EncodeCSV(ds)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, ds.Columns, records[0])

	promptCol := -1
	for i, col := range records[0] {
		if col == "prompt_used" {
			promptCol = i
		}
	}
	require.NotEqual(t, -1, promptCol)
	assert.Equal(t, prompt, records[1][promptCol])
}

func TestEncodeCSVStringifiesNestedData(t *testing.T) {
	ds := Build(TypeEvents, nil, []models.UsageEvent{{
		ID:        "e-1",
		SessionID: "sess",
		EventType: "page_view",
		EventData: map[string]interface{}{"utm_source": "ads"},
		CreatedAt: time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC),
	}})

	out, err := EncodeCSV(ds)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	dataCol := -1
	for i, col := range records[0] {
		if col == "event_data" {
			dataCol = i
		}
	}
	require.NotEqual(t, -1, dataCol)
	assert.JSONEq(t, `{"utm_source":"ads"}`, records[1][dataCol])
}
