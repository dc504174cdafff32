package models

type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type StyleCount struct {
	Style string `json:"style"`
	Count int64  `json:"count"`
}

type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int64  `json:"count"`
}

type HourCount struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

type SourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

type DeviceCount struct {
	Device string `json:"device"`
	Count  int64  `json:"count"`
}

// FunnelCounts are independent global counters per event type, not a true
// per-session funnel. Adjacent-stage ratios are a proxy only and can exceed
// 100%.
type FunnelCounts struct {
	PageViews int64 `json:"page_views"`
	Uploads   int64 `json:"uploads"`
	Enhances  int64 `json:"enhances"`
	Downloads int64 `json:"downloads"`
}

// AdminStats is the full dashboard payload, recomputed on every request.
// All time bucketing (daily_counts dates, peak_hours hours) is in UTC.
type AdminStats struct {
	TotalTransformations int64 `json:"total_transformations"`
	TodayCount           int64 `json:"today_count"`
	WeekCount            int64 `json:"week_count"`
	MonthCount           int64 `json:"month_count"`

	TotalStorageBytes   int64 `json:"total_storage_bytes"`
	AvgProcessingTimeMs int64 `json:"avg_processing_time_ms"`
	OptInRate           int   `json:"opt_in_rate"`

	DailyCounts            []DateCount   `json:"daily_counts"`
	PopularStyles          []StyleCount  `json:"popular_styles"`
	ProcessingDistribution []BucketCount `json:"processing_distribution"`
	PeakHours              []HourCount   `json:"peak_hours"`

	Funnel          FunnelCounts  `json:"funnel"`
	Attribution     []SourceCount `json:"attribution"`
	DeviceBreakdown []DeviceCount `json:"device_breakdown"`
	ErrorRate       float64       `json:"error_rate"`

	// RecentTransformations carries raw provenance fields and blob URLs;
	// served only behind the admin cookie check.
	RecentTransformations []Transformation `json:"recent_transformations"`
}

// EmptyStats returns a zero payload with non-nil slices so the JSON encodes
// empty arrays, matching what the dashboard expects when nothing is stored.
func EmptyStats() *AdminStats {
	return &AdminStats{
		DailyCounts:            []DateCount{},
		PopularStyles:          []StyleCount{},
		ProcessingDistribution: []BucketCount{},
		PeakHours:              []HourCount{},
		Attribution:            []SourceCount{},
		DeviceBreakdown:        []DeviceCount{},
		RecentTransformations:  []Transformation{},
	}
}
