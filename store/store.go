// Package store provides the record store behind the analytics and gallery
// surfaces: three interchangeable backends (Postgres, MySQL, a blob-JSON
// store) behind one interface, selected once at startup.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sceneit/sceneit-server/config"
	"github.com/sceneit/sceneit-server/models"
)

// MaxPerPage caps gallery pagination.
const MaxPerPage = 50

// TransformationFilter is the AND-combined predicate set for gallery reads.
type TransformationFilter struct {
	// OptInOnly restricts results to consented records. The gallery always
	// sets this; it is not reachable from query parameters.
	OptInOnly bool
	StyleKey  string
	// Search matches case-insensitive substrings of prompt_used, style_name
	// and style_key.
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time

	// Page is 1-indexed. PerPage is clamped to 1..MaxPerPage.
	Page    int
	PerPage int
}

func (f *TransformationFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = 20
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
}

// Store is the durable append + query capability over the two record kinds.
// Implementations are safe for concurrent readers; write-concurrency
// guarantees differ per backend (see BlobStore).
type Store interface {
	// AppendTransformation writes one record, filling ID and CreatedAt when
	// unset, and returns the record id.
	AppendTransformation(ctx context.Context, t *models.Transformation) (string, error)

	// AppendEvents writes a batch of usage events.
	AppendEvents(ctx context.Context, events []models.UsageEvent) error

	// QueryTransformations returns one page of matching records ordered by
	// created_at descending, plus the filtered total.
	QueryTransformations(ctx context.Context, f TransformationFilter) ([]models.Transformation, int64, error)

	// Stats computes the full dashboard payload against now.
	Stats(ctx context.Context, now time.Time) (*models.AdminStats, error)

	// TransformationsBetween and EventsBetween are the raw reads backing the
	// export service, ordered by created_at descending.
	TransformationsBetween(ctx context.Context, from, to time.Time) ([]models.Transformation, error)
	EventsBetween(ctx context.Context, from, to time.Time) ([]models.UsageEvent, error)

	Close() error
}

// Open selects the backend from configuration. A nil Store with a nil error
// means persistence is disabled; callers treat that as a valid deployment
// mode, never as a failure.
func Open(ctx context.Context, cfg config.App) (Store, error) {
	switch cfg.StorageBackend {
	case "postgres":
		return OpenPostgres(cfg.DatabaseURL)
	case "mysql":
		return OpenMySQL(cfg.MySQLDSN)
	case "blob":
		objects, err := newGCSObjects(ctx, cfg.DataBucket)
		if err != nil {
			return nil, err
		}
		return NewBlobStore(objects), nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}
