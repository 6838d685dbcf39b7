package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PurchaseStatusCompleted = "completed"
	PurchaseStatusRefunded  = "refunded"
	PurchaseStatusDisputed  = "disputed"
)

// Purchase records a completed one-time content purchase. At most one
// completed purchase may exist per (user, content) pair, and each provider
// checkout session maps to at most one row; both are enforced by unique
// indexes so concurrent webhook deliveries race on the constraint instead
// of on application reads.
type Purchase struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchases_user_content" json:"user_id"`
	ContentID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchases_user_content" json:"content_id"`
	CheckoutSessionID string    `gorm:"size:255;not null;uniqueIndex" json:"checkout_session_id"`
	PaymentIntentID   string    `gorm:"size:255" json:"payment_intent_id"`
	AmountCents       int64     `gorm:"not null;default:0" json:"amount_cents"`
	Currency          string    `gorm:"size:3;not null;default:'gbp'" json:"currency"`
	Status            string    `gorm:"size:20;not null;default:'completed';index" json:"status"`
	PurchasedAt       time.Time `gorm:"not null" json:"purchased_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	User              User      `gorm:"foreignKey:UserID" json:"-"`
}
