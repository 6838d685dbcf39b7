package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ContentKindPodcast = "podcast"
	ContentKindCourse  = "course"
)

// ContentItem is a purchasable unit: a podcast episode or a CPD course.
type ContentItem struct {
	ID                  uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Kind                string         `gorm:"size:20;not null;default:'podcast';index" json:"kind"`
	Title               string         `gorm:"size:255;not null" json:"title"`
	Slug                string         `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description         string         `gorm:"type:text" json:"description"`
	PriceCents          int64          `gorm:"not null;default:0" json:"price_cents"`
	Currency            string         `gorm:"size:3;not null;default:'gbp'" json:"currency"`
	SpecialOfferCents   *int64         `json:"special_offer_cents,omitempty"`
	SpecialOfferActive  bool           `gorm:"default:false" json:"special_offer_active"`
	Purchasable         bool           `gorm:"default:true" json:"purchasable"`
	SubscriptionEligible bool          `gorm:"default:true" json:"subscription_eligible"`
	PublishedAt         *time.Time     `json:"published_at,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// EffectivePriceCents returns the special-offer price when the offer is
// active, otherwise the list price.
func (c *ContentItem) EffectivePriceCents() int64 {
	if c.SpecialOfferActive && c.SpecialOfferCents != nil {
		return *c.SpecialOfferCents
	}
	return c.PriceCents
}
