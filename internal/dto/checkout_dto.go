package dto

const (
	CheckoutTypeContentPurchase = "content_purchase"
	CheckoutTypeSubscription    = "subscription"
)

// CheckoutRequest is the body of POST /api/checkout. ContentID and PriceID
// are conditionally required depending on Type; PriceCents optionally
// overrides the catalog price (e.g. a special offer locked in client-side).
type CheckoutRequest struct {
	ContentID  string `json:"contentId"`
	UserID     string `json:"userId"`
	Type       string `json:"type"`
	PriceID    string `json:"priceId"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
	PriceCents *int64 `json:"priceCents"`
}

type CheckoutResponse struct {
	Success    bool   `json:"success"`
	SessionID  string `json:"sessionId"`
	SessionURL string `json:"sessionUrl"`
}
