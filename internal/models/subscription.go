package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionStatusActive     = "active"
	SubscriptionStatusTrialing   = "trialing"
	SubscriptionStatusPastDue    = "past_due"
	SubscriptionStatusCanceled   = "canceled"
	SubscriptionStatusIncomplete = "incomplete"
	SubscriptionStatusExpired    = "expired"
)

// Subscription mirrors a provider subscription. Rows are upserted keyed by
// the provider-assigned subscription id, last-write-wins per event, so
// out-of-order webhook deliveries converge on the provider's state.
type Subscription struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ProviderSubID      string    `gorm:"size:255;not null;uniqueIndex" json:"provider_sub_id"`
	ProviderCustomerID string    `gorm:"size:255;index" json:"provider_customer_id"`
	PriceID            string    `gorm:"size:255" json:"price_id"`
	Status             string    `gorm:"size:32;not null;default:'incomplete';index" json:"status"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	CancelAtPeriodEnd  bool      `gorm:"default:false" json:"cancel_at_period_end"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	User               User      `gorm:"foreignKey:UserID" json:"-"`
}

// GrantsAccess reports whether the subscription currently confers catalog
// access. Trialing counts; canceled-but-not-yet-expired does not once the
// provider reports the terminal status.
func (s *Subscription) GrantsAccess() bool {
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusTrialing
}
