package payments

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Typed event payloads. Provider objects are decoded into these at the
// boundary so downstream code never handles loose maps.

type CheckoutSessionPayload struct {
	ID                string            `json:"id"`
	Mode              string            `json:"mode"`
	ClientReferenceID string            `json:"client_reference_id"`
	PaymentIntent     string            `json:"payment_intent"`
	Subscription      string            `json:"subscription"`
	Customer          string            `json:"customer"`
	AmountTotal       int64             `json:"amount_total"`
	Currency          string            `json:"currency"`
	Metadata          map[string]string `json:"metadata"`
}

type SubscriptionPayload struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	Customer           string `json:"customer"`
	CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	Items              struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

type InvoicePayload struct {
	ID           string `json:"id"`
	Subscription string `json:"subscription"`
	Customer     string `json:"customer"`
}

func ParseCheckoutSession(raw json.RawMessage) (*CheckoutSessionPayload, error) {
	var p CheckoutSessionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode checkout session payload: %w", err)
	}
	if p.ID == "" {
		return nil, errors.New("checkout session payload missing id")
	}
	return &p, nil
}

func ParseSubscription(raw json.RawMessage) (*SubscriptionPayload, error) {
	var p SubscriptionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode subscription payload: %w", err)
	}
	if p.ID == "" {
		return nil, errors.New("subscription payload missing id")
	}
	return &p, nil
}

func ParseInvoice(raw json.RawMessage) (*InvoicePayload, error) {
	var p InvoicePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode invoice payload: %w", err)
	}
	return &p, nil
}
