package store

import (
	"math"
	"sort"
	"time"

	"github.com/sceneit/sceneit-server/models"
)

// processingBuckets are the four fixed processing-time buckets, in display
// order. Every backend returns all four, zero counts included, so the bucket
// counts always sum to total_transformations.
var processingBuckets = []struct {
	label string
	maxMs int64
}{
	{"<5s", 5000},
	{"5-15s", 15000},
	{"15-30s", 30000},
	{">30s", math.MaxInt64},
}

const (
	topStyles  = 10
	topSources = 10
	recentN    = 20
)

// ComputeStats derives the full dashboard payload from raw record slices.
// Used directly by the blob backend (full in-memory scan) and by the tests as
// the reference semantics for the SQL backends. All calendar bucketing is UTC.
func ComputeStats(transformations []models.Transformation, events []models.UsageEvent, now time.Time) *models.AdminStats {
	stats := models.EmptyStats()

	var (
		sumProcessing int64
		optedIn       int64
		daily         = map[string]int64{}
		styleCounts   = map[string]int64{}
		hourCounts    = map[int]int64{}
		bucketCounts  = map[string]int64{}
	)

	dayAgo := now.Add(-24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	for _, t := range transformations {
		stats.TotalTransformations++
		if t.CreatedAt.After(dayAgo) {
			stats.TodayCount++
		}
		if t.CreatedAt.After(weekAgo) {
			stats.WeekCount++
		}
		if t.CreatedAt.After(monthAgo) {
			stats.MonthCount++
			daily[t.CreatedAt.UTC().Format("2006-01-02")]++
		}
		stats.TotalStorageBytes += t.OriginalSizeBytes + t.EnhancedSizeBytes
		sumProcessing += t.ProcessingTimeMs
		if t.OptIn {
			optedIn++
		}
		styleCounts[styleOrDefault(t.StyleKey)]++
		hourCounts[t.CreatedAt.UTC().Hour()]++
		bucketCounts[processingBucket(t.ProcessingTimeMs)]++
	}

	if stats.TotalTransformations > 0 {
		stats.AvgProcessingTimeMs = int64(math.Round(float64(sumProcessing) / float64(stats.TotalTransformations)))
		stats.OptInRate = int(math.Round(float64(optedIn) * 100 / float64(stats.TotalTransformations)))
	}

	stats.DailyCounts = sortedDateCounts(daily)
	stats.PopularStyles = topStyleCounts(styleCounts, topStyles)
	stats.ProcessingDistribution = FillDistribution(bucketCounts)
	stats.PeakHours = sortedHourCounts(hourCounts)

	var (
		starts, errors int64
		sources        = map[string]int64{}
		devices        = map[string]int64{}
	)
	for _, e := range events {
		switch e.EventType {
		case models.EventPageView:
			stats.Funnel.PageViews++
			sources[attributionSource(e)]++
			devices[deref(e.DeviceType, "unknown")]++
		case models.EventUploadComplete:
			stats.Funnel.Uploads++
		case models.EventEnhanceComplete:
			stats.Funnel.Enhances++
		case models.EventDownload:
			stats.Funnel.Downloads++
		case models.EventEnhanceStart:
			starts++
		case models.EventEnhanceError:
			errors++
		}
	}
	if starts > 0 {
		stats.ErrorRate = float64(errors) * 100 / float64(starts)
	}
	stats.Attribution = topSourceCounts(sources, topSources)
	stats.DeviceBreakdown = sortedDeviceCounts(devices)

	stats.RecentTransformations = recentTransformations(transformations, recentN)
	return stats
}

// FillDistribution turns per-bucket counts into the fixed four-bucket slice,
// zero-filling any bucket the backend's GROUP BY omitted.
func FillDistribution(counts map[string]int64) []models.BucketCount {
	out := make([]models.BucketCount, 0, len(processingBuckets))
	for _, b := range processingBuckets {
		out = append(out, models.BucketCount{Bucket: b.label, Count: counts[b.label]})
	}
	return out
}

func processingBucket(ms int64) string {
	for _, b := range processingBuckets {
		if ms < b.maxMs {
			return b.label
		}
	}
	return processingBuckets[len(processingBuckets)-1].label
}

// attributionSource collapses a page_view to its traffic source: UTM source
// first, then referrer, then "direct".
func attributionSource(e models.UsageEvent) string {
	if e.EventData != nil {
		if s, ok := e.EventData["utm_source"].(string); ok && s != "" {
			return s
		}
	}
	if e.Referrer != nil && *e.Referrer != "" {
		return *e.Referrer
	}
	return "direct"
}

func styleOrDefault(key *string) string {
	if key == nil || *key == "" {
		return "default"
	}
	return *key
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func sortedDateCounts(m map[string]int64) []models.DateCount {
	out := make([]models.DateCount, 0, len(m))
	for d, c := range m {
		out = append(out, models.DateCount{Date: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func sortedHourCounts(m map[int]int64) []models.HourCount {
	out := make([]models.HourCount, 0, len(m))
	for h, c := range m {
		out = append(out, models.HourCount{Hour: h, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

func topStyleCounts(m map[string]int64, n int) []models.StyleCount {
	out := make([]models.StyleCount, 0, len(m))
	for s, c := range m {
		out = append(out, models.StyleCount{Style: s, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Style < out[j].Style
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func topSourceCounts(m map[string]int64, n int) []models.SourceCount {
	out := make([]models.SourceCount, 0, len(m))
	for s, c := range m {
		out = append(out, models.SourceCount{Source: s, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Source < out[j].Source
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func sortedDeviceCounts(m map[string]int64) []models.DeviceCount {
	out := make([]models.DeviceCount, 0, len(m))
	for d, c := range m {
		out = append(out, models.DeviceCount{Device: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Device < out[j].Device
	})
	return out
}

func recentTransformations(ts []models.Transformation, n int) []models.Transformation {
	out := make([]models.Transformation, len(ts))
	copy(out, ts)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
