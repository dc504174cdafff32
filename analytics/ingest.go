// Package analytics implements the event-ingestion pipeline and the
// transformation recorder. Everything here is a side channel: failures are
// logged and swallowed, never surfaced to the user flow.
package analytics

import (
	"fmt"
	"strconv"

	"github.com/sceneit/sceneit-server/models"
)

// MaxBatchSize caps one ingestion flush; events past the cap are silently
// dropped.
const MaxBatchSize = 50

// RawEvent is one client-asserted event before normalization. Kept as an open
// map because browsers send whatever they send.
type RawEvent map[string]interface{}

// NormalizeEvents bounds and coerces a client batch. The ip hash and user
// agent come from the HTTP request server-side and override anything the
// client supplied.
func NormalizeEvents(raw []RawEvent, ipHash, userAgent string) []models.UsageEvent {
	if len(raw) > MaxBatchSize {
		raw = raw[:MaxBatchSize]
	}

	out := make([]models.UsageEvent, 0, len(raw))
	for _, r := range raw {
		ev := models.UsageEvent{
			SessionID: stringField(r, "session_id", "unknown"),
			EventType: stringField(r, "event_type", "unknown"),
			EventData: dataField(r, "event_data"),
			IPHash:    optString(ipHash),
			UserAgent: optString(userAgent),
		}
		if v := stringField(r, "transformation_id", ""); v != "" {
			ev.TransformationID = &v
		}
		if v := stringField(r, "referrer", ""); v != "" {
			ev.Referrer = &v
		}
		if v := stringField(r, "device_type", ""); v != "" {
			ev.DeviceType = &v
		}
		if v := stringField(r, "screen_size", ""); v != "" {
			ev.ScreenSize = &v
		}
		out = append(out, ev)
	}
	return out
}

// HashIP is a cheap non-cryptographic hash, enough for rough deduplication
// and nothing more. It matches the 32-bit string hash the web client has
// always used, rendered in base 36.
func HashIP(ip string) string {
	if ip == "" {
		ip = "unknown"
	}
	var h int32
	for _, ch := range ip {
		h = (h << 5) - h + int32(ch)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}

func stringField(r RawEvent, key, fallback string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return fallback
	}
	switch s := v.(type) {
	case string:
		if s == "" {
			return fallback
		}
		return s
	default:
		return fmt.Sprint(v)
	}
}

func dataField(r RawEvent, key string) map[string]interface{} {
	if m, ok := r[key].(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
