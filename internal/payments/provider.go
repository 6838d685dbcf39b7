// Package payments wraps the external payment provider. Services depend on
// the Provider interface; the Stripe implementation lives in stripe.go.
package payments

import (
	"encoding/json"
	"time"
)

const (
	ModePayment      = "payment"
	ModeSubscription = "subscription"
)

// Provider event types we dispatch on. Anything else is acknowledged and
// ignored.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventSubscriptionCreated      = "customer.subscription.created"
	EventSubscriptionUpdated      = "customer.subscription.updated"
	EventSubscriptionDeleted      = "customer.subscription.deleted"
	EventInvoicePaymentSucceeded  = "invoice.payment_succeeded"
	EventInvoicePaymentFailed     = "invoice.payment_failed"
)

// CheckoutParams describes a hosted checkout session to create.
type CheckoutParams struct {
	Mode        string
	UserID      string
	ContentID   string
	ProductName string
	AmountCents int64
	Currency    string
	PriceID     string
	SuccessURL  string
	CancelURL   string
}

// Session is the created provider checkout session. URL points at the
// provider-hosted payment page.
type Session struct {
	ID  string
	URL string
}

// SubscriptionState is the provider's current view of a subscription,
// re-fetched on invoice events so upserts converge regardless of delivery
// order.
type SubscriptionState struct {
	ID                 string
	CustomerID         string
	PriceID            string
	Status             string
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelAtPeriodEnd  bool
}

// Event is a verified provider webhook event. Payload holds the raw object
// JSON for per-type decoding.
type Event struct {
	ID      string
	Type    string
	Payload json.RawMessage
}

// Provider is the payment-provider surface the services use. Checkout
// session creation never grants access; only verified webhook events do.
type Provider interface {
	CreateCheckoutSession(p CheckoutParams) (*Session, error)
	GetSubscription(id string) (*SubscriptionState, error)
	VerifyEvent(payload []byte, sigHeader string) (Event, error)
}
