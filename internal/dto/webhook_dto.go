package dto

// WebhookAck is returned to the provider on any delivery we have fully
// handled, including replays we deliberately no-op.
type WebhookAck struct {
	Received  bool   `json:"received"`
	EventType string `json:"eventType"`
	EventID   string `json:"eventId"`
}

// WebhookError is returned when processing failed in a way the provider
// should retry (e.g. the purchase row could not be persisted).
type WebhookError struct {
	Error     string `json:"error"`
	EventType string `json:"eventType"`
	EventID   string `json:"eventId"`
}
