package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WebhookEvent is the provider event dedup ledger. The unique index on the
// provider event id makes replayed deliveries no-ops: the handler inserts
// with ON CONFLICT DO NOTHING and short-circuits when no row was created.
type WebhookEvent struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProviderEventID string         `gorm:"size:255;not null;uniqueIndex" json:"provider_event_id"`
	EventType       string         `gorm:"size:100;not null;index" json:"event_type"`
	Payload         datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"payload"`
	ProcessedAt     *time.Time     `json:"processed_at,omitempty"`
	ProcessingError string         `gorm:"type:text" json:"processing_error"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
