package dto

// ContentUpsertRequest is the admin create/update body for catalog items.
// Pointer fields distinguish "not sent" from zero values on update.
type ContentUpsertRequest struct {
	Kind                 string `json:"kind"`
	Title                string `json:"title"`
	Slug                 string `json:"slug"`
	Description          string `json:"description"`
	PriceCents           *int64 `json:"price_cents"`
	Currency             string `json:"currency"`
	SpecialOfferCents    *int64 `json:"special_offer_cents"`
	SpecialOfferActive   *bool  `json:"special_offer_active"`
	Purchasable          *bool  `json:"purchasable"`
	SubscriptionEligible *bool  `json:"subscription_eligible"`
}

type SimulatePurchaseRequest struct {
	UserID    string `json:"userId"`
	ContentID string `json:"contentId"`
}
