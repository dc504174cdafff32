package models

import (
	"time"

	"gorm.io/datatypes"
)

// Known event types emitted by the web client. The server stores whatever
// string it receives; these constants exist for the aggregation queries, not
// for validation. Unknown values are kept as-is (forward-compatible).
const (
	EventPageView        = "page_view"
	EventUploadStart     = "upload_start"
	EventUploadComplete  = "upload_complete"
	EventEnhanceStart    = "enhance_start"
	EventEnhanceComplete = "enhance_complete"
	EventEnhanceError    = "enhance_error"
	EventDownload        = "download"
	EventGalleryView     = "gallery_view"
	EventStyleSelected   = "style_selected"
	EventPromptCustom    = "prompt_custom"
	EventConsentGiven    = "consent_given"
	EventConsentRevoked  = "consent_revoked"
	EventShareClick      = "share_click"
)

// Transformation is one completed, consented enhancement. Created exactly
// once after a successful Gemini call, never mutated or deleted.
type Transformation struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_transformations_created_at,sort:desc"`

	// SessionID is a client-supplied correlation key, opaque and unauthenticated.
	SessionID string `json:"session_id" gorm:"size:64;index"`

	OriginalBlobURL *string `json:"original_blob_url"`
	EnhancedBlobURL *string `json:"enhanced_blob_url"`
	PreviewBlobURL  *string `json:"preview_blob_url"`

	PromptUsed *string `json:"prompt_used"`
	StyleKey   *string `json:"style_key" gorm:"size:64;index"`
	StyleName  *string `json:"style_name" gorm:"size:128"`

	ProcessingTimeMs   int64 `json:"processing_time_ms"`
	OriginalSizeBytes  int64 `json:"original_size_bytes"`
	EnhancedSizeBytes  int64 `json:"enhanced_size_bytes"`
	OriginalDimensions *string `json:"original_dimensions"`
	EnhancedDimensions *string `json:"enhanced_dimensions"`

	// OptIn gates gallery visibility. Records with OptIn=false still count
	// in aggregate totals but never surface outside the admin dashboard.
	OptIn bool `json:"opt_in"`

	UserAgent *string `json:"user_agent"`
	IPHash    *string `json:"ip_hash" gorm:"column:ip_hash;size:16"`
	Referrer  *string `json:"referrer"`
}

func (Transformation) TableName() string { return "transformations" }

// UsageEvent is one client- or server-observed interaction, append-only.
type UsageEvent struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_usage_events_created_at,sort:desc"`

	// TransformationID is a weak reference: no FK, nullable, never implies
	// ownership.
	TransformationID *string `json:"transformation_id" gorm:"size:36"`

	SessionID string `json:"session_id" gorm:"size:64;index"`
	EventType string `json:"event_type" gorm:"size:64;index"`

	// EventData is an open string-keyed bag (UTM params, error messages,
	// booleans...). Forward-compatible, not validated.
	EventData datatypes.JSONMap `json:"event_data"`

	IPHash     *string `json:"ip_hash" gorm:"column:ip_hash;size:16"`
	UserAgent  *string `json:"user_agent"`
	Referrer   *string `json:"referrer"`
	DeviceType *string `json:"device_type" gorm:"size:32"`
	ScreenSize *string `json:"screen_size" gorm:"size:32"`
}

func (UsageEvent) TableName() string { return "usage_events" }

// GalleryResponse is the paginated public view over opted-in transformations.
type GalleryResponse struct {
	Transformations []Transformation `json:"transformations"`
	Total           int64            `json:"total"`
	Page            int              `json:"page"`
	PerPage         int              `json:"per_page"`
}
