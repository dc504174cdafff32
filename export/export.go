// Package export produces filtered, date-ranged dumps of the record streams
// as JSON or CSV. The derived projections (sessions, attribution) are
// computed here over the store's raw range reads so every backend exports
// identically.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sceneit/sceneit-server/models"
)

// Dataset is an ordered projection: Columns fixes the CSV header order, each
// row maps column name to value.
type Dataset struct {
	Columns []string
	Rows    []map[string]interface{}
}

// Types accepted by Build.
const (
	TypeTransformations = "transformations"
	TypeEvents          = "events"
	TypeSessions        = "sessions"
	TypeAttribution     = "attribution"
)

// Build projects the raw records into the requested dataset. Unknown types
// yield an empty dataset, mirroring the dashboard's lenient behavior.
func Build(exportType string, transformations []models.Transformation, events []models.UsageEvent) Dataset {
	ds := build(exportType, transformations, events)
	if ds.Rows == nil {
		ds.Rows = []map[string]interface{}{}
	}
	return ds
}

func build(exportType string, transformations []models.Transformation, events []models.UsageEvent) Dataset {
	switch exportType {
	case TypeTransformations:
		return transformationRows(transformations)
	case TypeEvents:
		return eventRows(events)
	case TypeSessions:
		return sessionRows(events)
	case TypeAttribution:
		return attributionRows(events)
	default:
		return Dataset{Columns: []string{}, Rows: []map[string]interface{}{}}
	}
}

func transformationRows(ts []models.Transformation) Dataset {
	ds := Dataset{
		Columns: []string{
			"id", "created_at", "session_id", "prompt_used", "style_key", "style_name",
			"processing_time_ms", "original_size_bytes", "enhanced_size_bytes", "opt_in",
		},
	}
	for _, t := range ts {
		ds.Rows = append(ds.Rows, map[string]interface{}{
			"id":                  t.ID,
			"created_at":          t.CreatedAt.UTC().Format(time.RFC3339),
			"session_id":          t.SessionID,
			"prompt_used":         strOrEmpty(t.PromptUsed),
			"style_key":           strOrEmpty(t.StyleKey),
			"style_name":          strOrEmpty(t.StyleName),
			"processing_time_ms":  t.ProcessingTimeMs,
			"original_size_bytes": t.OriginalSizeBytes,
			"enhanced_size_bytes": t.EnhancedSizeBytes,
			"opt_in":              t.OptIn,
		})
	}
	return ds
}

func eventRows(evs []models.UsageEvent) Dataset {
	ds := Dataset{
		Columns: []string{
			"id", "transformation_id", "session_id", "event_type", "event_data",
			"created_at", "referrer", "device_type", "screen_size",
		},
	}
	for _, e := range evs {
		ds.Rows = append(ds.Rows, map[string]interface{}{
			"id":                e.ID,
			"transformation_id": strOrEmpty(e.TransformationID),
			"session_id":        e.SessionID,
			"event_type":        e.EventType,
			"event_data":        map[string]interface{}(e.EventData),
			"created_at":        e.CreatedAt.UTC().Format(time.RFC3339),
			"referrer":          strOrEmpty(e.Referrer),
			"device_type":       strOrEmpty(e.DeviceType),
			"screen_size":       strOrEmpty(e.ScreenSize),
		})
	}
	return ds
}

// sessionRows derives per-session summaries: first/last seen, event count and
// the distinct event types observed, newest sessions first.
func sessionRows(evs []models.UsageEvent) Dataset {
	type session struct {
		id         string
		firstSeen  time.Time
		lastSeen   time.Time
		eventCount int64
		types      map[string]struct{}
	}

	sessions := map[string]*session{}
	for _, e := range evs {
		s, ok := sessions[e.SessionID]
		if !ok {
			s = &session{id: e.SessionID, firstSeen: e.CreatedAt, lastSeen: e.CreatedAt, types: map[string]struct{}{}}
			sessions[e.SessionID] = s
		}
		if e.CreatedAt.Before(s.firstSeen) {
			s.firstSeen = e.CreatedAt
		}
		if e.CreatedAt.After(s.lastSeen) {
			s.lastSeen = e.CreatedAt
		}
		s.eventCount++
		s.types[e.EventType] = struct{}{}
	}

	ordered := make([]*session, 0, len(sessions))
	for _, s := range sessions {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].firstSeen.After(ordered[j].firstSeen) })

	ds := Dataset{Columns: []string{"session_id", "first_seen", "last_seen", "event_count", "event_types"}}
	for _, s := range ordered {
		types := make([]string, 0, len(s.types))
		for t := range s.types {
			types = append(types, t)
		}
		sort.Strings(types)
		ds.Rows = append(ds.Rows, map[string]interface{}{
			"session_id":  s.id,
			"first_seen":  s.firstSeen.UTC().Format(time.RFC3339),
			"last_seen":   s.lastSeen.UTC().Format(time.RFC3339),
			"event_count": s.eventCount,
			"event_types": types,
		})
	}
	return ds
}

// attributionRows groups page views by the full UTM 4-tuple, uncapped, most
// frequent first.
func attributionRows(evs []models.UsageEvent) Dataset {
	type key struct {
		source, medium, campaign, referrer string
	}

	counts := map[key]int64{}
	for _, e := range evs {
		if e.EventType != models.EventPageView {
			continue
		}
		k := key{
			source:   utmField(e, "utm_source"),
			medium:   utmField(e, "utm_medium"),
			campaign: utmField(e, "utm_campaign"),
			referrer: strOrEmpty(e.Referrer),
		}
		counts[k]++
	}

	type entry struct {
		key
		count int64
	}
	ordered := make([]entry, 0, len(counts))
	for k, c := range counts {
		ordered = append(ordered, entry{key: k, count: c})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return fmt.Sprint(ordered[i].key) < fmt.Sprint(ordered[j].key)
	})

	ds := Dataset{Columns: []string{"utm_source", "utm_medium", "utm_campaign", "referrer", "count"}}
	for _, e := range ordered {
		ds.Rows = append(ds.Rows, map[string]interface{}{
			"utm_source":   e.source,
			"utm_medium":   e.medium,
			"utm_campaign": e.campaign,
			"referrer":     e.referrer,
			"count":        e.count,
		})
	}
	return ds
}

func utmField(e models.UsageEvent, key string) string {
	if e.EventData != nil {
		if s, ok := e.EventData[key].(string); ok && s != "" {
			return s
		}
	}
	return "none"
}

// EncodeCSV renders the dataset with RFC 4180 quoting; nested values (maps,
// slices) are stringified as JSON so spreadsheet tools see one cell.
func EncodeCSV(ds Dataset) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(ds.Columns); err != nil {
		return "", err
	}
	for _, row := range ds.Rows {
		record := make([]string, len(ds.Columns))
		for i, col := range ds.Columns {
			record[i] = stringify(row[col])
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]interface{}, []string, []interface{}:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	default:
		return fmt.Sprint(t)
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
