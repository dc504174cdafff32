package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/driver/postgres"

	"github.com/sceneit/sceneit-server/models"
)

type postgresStore struct {
	sqlStore
}

// OpenPostgres connects to the primary SQL backend and runs migrations.
func OpenPostgres(dsn string) (Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
	}
	db, err := openGorm(postgres.Open(dsn))
	if err != nil {
		return nil, err
	}

	// Partial index: the gallery only ever reads opted-in rows.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_transformations_opt_in ON transformations (opt_in) WHERE opt_in`).Error; err != nil {
		return nil, fmt.Errorf("failed to create opt_in index: %w", err)
	}

	return &postgresStore{sqlStore{db: db, likeOp: "ILIKE"}}, nil
}

// Stats runs backend-native aggregate queries. Calendar bucketing is pinned
// to UTC so all backends agree with the in-memory aggregator.
func (s *postgresStore) Stats(ctx context.Context, now time.Time) (*models.AdminStats, error) {
	stats := models.EmptyStats()
	db := s.db.WithContext(ctx)

	var totals struct {
		Total   int64
		Today   int64
		Week    int64
		Month   int64
		Storage int64
		AvgMs   float64
		Opted   int64
	}
	err := db.Raw(`
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE created_at > ?) AS today,
		       COUNT(*) FILTER (WHERE created_at > ?) AS week,
		       COUNT(*) FILTER (WHERE created_at > ?) AS month,
		       COALESCE(SUM(original_size_bytes + enhanced_size_bytes), 0) AS storage,
		       COALESCE(AVG(processing_time_ms), 0) AS avg_ms,
		       COUNT(*) FILTER (WHERE opt_in) AS opted
		FROM transformations`,
		now.Add(-24*time.Hour), now.Add(-7*24*time.Hour), now.Add(-30*24*time.Hour),
	).Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("stats totals: %w", err)
	}
	stats.TotalTransformations = totals.Total
	stats.TodayCount = totals.Today
	stats.WeekCount = totals.Week
	stats.MonthCount = totals.Month
	stats.TotalStorageBytes = totals.Storage
	if totals.Total > 0 {
		stats.AvgProcessingTimeMs = int64(math.Round(totals.AvgMs))
		stats.OptInRate = int(math.Round(float64(totals.Opted) * 100 / float64(totals.Total)))
	}

	err = db.Raw(`
		SELECT TO_CHAR(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS date, COUNT(*) AS count
		FROM transformations WHERE created_at > ?
		GROUP BY 1 ORDER BY 1`,
		now.Add(-30*24*time.Hour),
	).Scan(&stats.DailyCounts).Error
	if err != nil {
		return nil, fmt.Errorf("stats daily counts: %w", err)
	}

	err = db.Raw(`
		SELECT COALESCE(NULLIF(style_key, ''), 'default') AS style, COUNT(*) AS count
		FROM transformations
		GROUP BY 1 ORDER BY count DESC, style ASC LIMIT ?`, topStyles,
	).Scan(&stats.PopularStyles).Error
	if err != nil {
		return nil, fmt.Errorf("stats popular styles: %w", err)
	}

	var buckets []models.BucketCount
	err = db.Raw(`
		SELECT CASE
		         WHEN processing_time_ms < 5000 THEN '<5s'
		         WHEN processing_time_ms < 15000 THEN '5-15s'
		         WHEN processing_time_ms < 30000 THEN '15-30s'
		         ELSE '>30s'
		       END AS bucket,
		       COUNT(*) AS count
		FROM transformations GROUP BY 1`).Scan(&buckets).Error
	if err != nil {
		return nil, fmt.Errorf("stats processing distribution: %w", err)
	}
	stats.ProcessingDistribution = FillDistribution(bucketCountMap(buckets))

	err = db.Raw(`
		SELECT CAST(EXTRACT(HOUR FROM created_at AT TIME ZONE 'UTC') AS INT) AS hour, COUNT(*) AS count
		FROM transformations GROUP BY 1 ORDER BY 1`).Scan(&stats.PeakHours).Error
	if err != nil {
		return nil, fmt.Errorf("stats peak hours: %w", err)
	}

	var funnelRows []struct {
		EventType string
		Count     int64
	}
	err = db.Raw(`
		SELECT event_type, COUNT(*) AS count FROM usage_events
		WHERE event_type IN (?, ?, ?, ?)
		GROUP BY event_type`,
		models.EventPageView, models.EventUploadComplete, models.EventEnhanceComplete, models.EventDownload,
	).Scan(&funnelRows).Error
	if err != nil {
		return nil, fmt.Errorf("stats funnel: %w", err)
	}
	funnelCounts := map[string]int64{}
	for _, r := range funnelRows {
		funnelCounts[r.EventType] = r.Count
	}
	stats.Funnel = funnelFromCounts(funnelCounts)

	err = db.Raw(`
		SELECT COALESCE(NULLIF(event_data->>'utm_source', ''), NULLIF(referrer, ''), 'direct') AS source, COUNT(*) AS count
		FROM usage_events WHERE event_type = ?
		GROUP BY 1 ORDER BY count DESC, source ASC LIMIT ?`,
		models.EventPageView, topSources,
	).Scan(&stats.Attribution).Error
	if err != nil {
		return nil, fmt.Errorf("stats attribution: %w", err)
	}

	err = db.Raw(`
		SELECT COALESCE(NULLIF(device_type, ''), 'unknown') AS device, COUNT(*) AS count
		FROM usage_events WHERE event_type = ?
		GROUP BY 1 ORDER BY count DESC, device ASC`,
		models.EventPageView,
	).Scan(&stats.DeviceBreakdown).Error
	if err != nil {
		return nil, fmt.Errorf("stats device breakdown: %w", err)
	}

	var errRates struct {
		Starts int64
		Errors int64
	}
	err = db.Raw(`
		SELECT COUNT(*) FILTER (WHERE event_type = ?) AS starts,
		       COUNT(*) FILTER (WHERE event_type = ?) AS errors
		FROM usage_events`,
		models.EventEnhanceStart, models.EventEnhanceError,
	).Scan(&errRates).Error
	if err != nil {
		return nil, fmt.Errorf("stats error rate: %w", err)
	}
	if errRates.Starts > 0 {
		stats.ErrorRate = float64(errRates.Errors) * 100 / float64(errRates.Starts)
	}

	recent, err := s.recent(ctx, recentN)
	if err != nil {
		return nil, fmt.Errorf("stats recent transformations: %w", err)
	}
	stats.RecentTransformations = recent

	return stats, nil
}

func bucketCountMap(rows []models.BucketCount) map[string]int64 {
	m := make(map[string]int64, len(rows))
	for _, r := range rows {
		m[r.Bucket] = r.Count
	}
	return m
}
