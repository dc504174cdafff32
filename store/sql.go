package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sceneit/sceneit-server/models"
)

// sqlStore is the GORM-backed core shared by the Postgres and MySQL adapters.
// Row inserts are independent, so unlike the blob backend concurrent appends
// are safe here.
type sqlStore struct {
	db *gorm.DB
	// likeOp is the dialect's case-insensitive substring operator.
	likeOp string
}

func openGorm(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB object: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	if err := db.AutoMigrate(&models.Transformation{}, &models.UsageEvent{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func (s *sqlStore) AppendTransformation(ctx context.Context, t *models.Transformation) (string, error) {
	stampTransformation(t)
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return "", err
	}
	return t.ID, nil
}

func (s *sqlStore) AppendEvents(ctx context.Context, events []models.UsageEvent) error {
	if len(events) == 0 {
		return nil
	}
	for i := range events {
		stampEvent(&events[i])
	}
	return s.db.WithContext(ctx).CreateInBatches(events, 50).Error
}

func (s *sqlStore) QueryTransformations(ctx context.Context, f TransformationFilter) ([]models.Transformation, int64, error) {
	f.normalize()

	q := s.db.WithContext(ctx).Model(&models.Transformation{})
	if f.OptInOnly {
		q = q.Where("opt_in = ?", true)
	}
	if f.StyleKey != "" {
		q = q.Where("style_key = ?", f.StyleKey)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		cond := fmt.Sprintf("prompt_used %[1]s ? OR style_name %[1]s ? OR style_key %[1]s ?", s.likeOp)
		q = q.Where(cond, pattern, pattern, pattern)
	}
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("created_at < ?", *f.DateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Transformation
	err := q.Order("created_at DESC").
		Limit(f.PerPage).
		Offset((f.Page - 1) * f.PerPage).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *sqlStore) TransformationsBetween(ctx context.Context, from, to time.Time) ([]models.Transformation, error) {
	var items []models.Transformation
	err := s.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (s *sqlStore) EventsBetween(ctx context.Context, from, to time.Time) ([]models.UsageEvent, error) {
	var items []models.UsageEvent
	err := s.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (s *sqlStore) recent(ctx context.Context, n int) ([]models.Transformation, error) {
	var items []models.Transformation
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(n).Find(&items).Error
	return items, err
}

func (s *sqlStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func stampTransformation(t *models.Transformation) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
}

func stampEvent(e *models.UsageEvent) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.EventData == nil {
		e.EventData = map[string]interface{}{}
	}
}

// funnelFromCounts zero-fills the four funnel counters from a per-type map.
func funnelFromCounts(counts map[string]int64) models.FunnelCounts {
	return models.FunnelCounts{
		PageViews: counts[models.EventPageView],
		Uploads:   counts[models.EventUploadComplete],
		Enhances:  counts[models.EventEnhanceComplete],
		Downloads: counts[models.EventDownload],
	}
}
