package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the way the provider
// does: HMAC-SHA256 over "<timestamp>.<payload>".
func signPayload(t *testing.T, payload []byte, secret string, ts time.Time) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyEventAcceptsSignedPayload(t *testing.T) {
	client := NewStripeClient("sk_test_x", testWebhookSecret)
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`)
	header := signPayload(t, payload, testWebhookSecret, time.Now())

	event, err := client.VerifyEvent(payload, header)
	if err != nil {
		t.Fatalf("VerifyEvent() error = %v", err)
	}
	if event.ID != "evt_1" {
		t.Errorf("event ID = %q, want evt_1", event.ID)
	}
	if event.Type != EventCheckoutSessionCompleted {
		t.Errorf("event type = %q, want %q", event.Type, EventCheckoutSessionCompleted)
	}
	if !strings.Contains(string(event.Payload), `"cs_1"`) {
		t.Errorf("event payload missing object: %s", event.Payload)
	}
}

func TestVerifyEventRejectsWrongSecret(t *testing.T) {
	client := NewStripeClient("sk_test_x", testWebhookSecret)
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{}}}`)
	header := signPayload(t, payload, "whsec_other_secret", time.Now())

	if _, err := client.VerifyEvent(payload, header); err == nil {
		t.Fatal("VerifyEvent() accepted a signature from the wrong secret")
	}
}

func TestVerifyEventRejectsTamperedBody(t *testing.T) {
	client := NewStripeClient("sk_test_x", testWebhookSecret)
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"amount_total":100}}}`)
	header := signPayload(t, payload, testWebhookSecret, time.Now())

	tampered := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"amount_total":1}}}`)
	if _, err := client.VerifyEvent(tampered, header); err == nil {
		t.Fatal("VerifyEvent() accepted a tampered body")
	}
}

func TestVerifyEventRejectsStaleTimestamp(t *testing.T) {
	client := NewStripeClient("sk_test_x", testWebhookSecret)
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{}}}`)
	header := signPayload(t, payload, testWebhookSecret, time.Now().Add(-time.Hour))

	if _, err := client.VerifyEvent(payload, header); err == nil {
		t.Fatal("VerifyEvent() accepted an hour-old signature")
	}
}

func TestVerifyEventRejectsGarbageHeader(t *testing.T) {
	client := NewStripeClient("sk_test_x", testWebhookSecret)
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)

	for _, header := range []string{"", "t=abc,v1=zzz", "v1=deadbeef"} {
		if _, err := client.VerifyEvent(payload, header); err == nil {
			t.Errorf("VerifyEvent() accepted header %q", header)
		}
	}
}

func TestParseCheckoutSession(t *testing.T) {
	raw := []byte(`{
		"id": "cs_123",
		"mode": "payment",
		"client_reference_id": "8d9f3a60-0000-4000-8000-000000000001",
		"payment_intent": "pi_123",
		"amount_total": 1499,
		"currency": "gbp",
		"metadata": {"user_id": "8d9f3a60-0000-4000-8000-000000000001", "content_id": "8d9f3a60-0000-4000-8000-000000000002"}
	}`)

	p, err := ParseCheckoutSession(raw)
	if err != nil {
		t.Fatalf("ParseCheckoutSession() error = %v", err)
	}
	if p.ID != "cs_123" || p.PaymentIntent != "pi_123" || p.AmountTotal != 1499 {
		t.Errorf("unexpected payload: %+v", p)
	}
	if p.Metadata["content_id"] != "8d9f3a60-0000-4000-8000-000000000002" {
		t.Errorf("metadata content_id = %q", p.Metadata["content_id"])
	}
}

func TestParseCheckoutSessionRejectsMissingID(t *testing.T) {
	if _, err := ParseCheckoutSession([]byte(`{"mode":"payment"}`)); err == nil {
		t.Fatal("ParseCheckoutSession() accepted a payload without id")
	}
}

func TestParseSubscription(t *testing.T) {
	raw := []byte(`{
		"id": "sub_123",
		"status": "active",
		"customer": "cus_123",
		"cancel_at_period_end": true,
		"current_period_start": 1700000000,
		"current_period_end": 1702592000,
		"items": {"data": [{"price": {"id": "price_123"}}]}
	}`)

	p, err := ParseSubscription(raw)
	if err != nil {
		t.Fatalf("ParseSubscription() error = %v", err)
	}
	if p.ID != "sub_123" || p.Status != "active" || !p.CancelAtPeriodEnd {
		t.Errorf("unexpected payload: %+v", p)
	}
	if len(p.Items.Data) != 1 || p.Items.Data[0].Price.ID != "price_123" {
		t.Errorf("price not decoded: %+v", p.Items)
	}
}

func TestParseSubscriptionRejectsMissingID(t *testing.T) {
	if _, err := ParseSubscription([]byte(`{"status":"active"}`)); err == nil {
		t.Fatal("ParseSubscription() accepted a payload without id")
	}
}
