package store

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/driver/mysql"

	"github.com/sceneit/sceneit-server/models"
)

type mysqlStore struct {
	sqlStore
}

// OpenMySQL connects to the secondary SQL backend. The DSN should carry
// parseTime=true&loc=UTC so timestamps round-trip in UTC like the other
// backends.
func OpenMySQL(dsn string) (Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("MYSQL_DSN is required for the mysql backend")
	}
	db, err := openGorm(mysql.Open(dsn))
	if err != nil {
		return nil, err
	}

	// MySQL has no partial indexes; a plain one still serves the gallery read.
	if err := db.Exec(`CREATE INDEX idx_transformations_opt_in ON transformations (opt_in)`).Error; err != nil {
		// Re-running migrations trips duplicate-key errors here; ignore them.
		if !isDuplicateKey(err) {
			return nil, fmt.Errorf("failed to create opt_in index: %w", err)
		}
	}

	// MySQL LIKE is case-insensitive under the default collation.
	return &mysqlStore{sqlStore{db: db, likeOp: "LIKE"}}, nil
}

func isDuplicateKey(err error) bool {
	return err != nil &&
		(strings.Contains(err.Error(), "Duplicate key name") || strings.Contains(err.Error(), "already exists"))
}

func (s *mysqlStore) Stats(ctx context.Context, now time.Time) (*models.AdminStats, error) {
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
		       COALESCE(SUM(CASE WHEN created_at > ? THEN 1 ELSE 0 END), 0) AS today,
		       COALESCE(SUM(CASE WHEN created_at > ? THEN 1 ELSE 0 END), 0) AS week,
		       COALESCE(SUM(CASE WHEN created_at > ? THEN 1 ELSE 0 END), 0) AS month,
		       COALESCE(SUM(original_size_bytes + enhanced_size_bytes), 0) AS storage,
		       COALESCE(AVG(processing_time_ms), 0) AS avg_ms,
		       COALESCE(SUM(CASE WHEN opt_in THEN 1 ELSE 0 END), 0) AS opted
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
		SELECT DATE_FORMAT(created_at, '%Y-%m-%d') AS date, COUNT(*) AS count
		FROM transformations WHERE created_at > ?
		GROUP BY date ORDER BY date`,
		now.Add(-30*24*time.Hour),
	).Scan(&stats.DailyCounts).Error
	if err != nil {
		return nil, fmt.Errorf("stats daily counts: %w", err)
	}

	err = db.Raw(`
		SELECT COALESCE(NULLIF(style_key, ''), 'default') AS style, COUNT(*) AS count
		FROM transformations
		GROUP BY style ORDER BY count DESC, style ASC LIMIT ?`, topStyles,
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
		FROM transformations GROUP BY bucket`).Scan(&buckets).Error
	if err != nil {
		return nil, fmt.Errorf("stats processing distribution: %w", err)
	}
	stats.ProcessingDistribution = FillDistribution(bucketCountMap(buckets))

	err = db.Raw(`
		SELECT HOUR(created_at) AS hour, COUNT(*) AS count
		FROM transformations GROUP BY hour ORDER BY hour`).Scan(&stats.PeakHours).Error
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
		SELECT COALESCE(NULLIF(JSON_UNQUOTE(JSON_EXTRACT(event_data, '$.utm_source')), ''), NULLIF(referrer, ''), 'direct') AS source,
		       COUNT(*) AS count
		FROM usage_events WHERE event_type = ?
		GROUP BY source ORDER BY count DESC, source ASC LIMIT ?`,
		models.EventPageView, topSources,
	).Scan(&stats.Attribution).Error
	if err != nil {
		return nil, fmt.Errorf("stats attribution: %w", err)
	}

	err = db.Raw(`
		SELECT COALESCE(NULLIF(device_type, ''), 'unknown') AS device, COUNT(*) AS count
		FROM usage_events WHERE event_type = ?
		GROUP BY device ORDER BY count DESC, device ASC`,
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
		SELECT COALESCE(SUM(CASE WHEN event_type = ? THEN 1 ELSE 0 END), 0) AS starts,
		       COALESCE(SUM(CASE WHEN event_type = ? THEN 1 ELSE 0 END), 0) AS errors
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
