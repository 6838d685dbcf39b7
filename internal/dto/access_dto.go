package dto

import "github.com/google/uuid"

type AccessCheckResponse struct {
	HasAccess bool `json:"hasAccess"`
}

type AccessibleContentResponse struct {
	ContentIDs []uuid.UUID `json:"contentIds"`
}

type SubscriptionStatusResponse struct {
	Active            bool   `json:"active"`
	Status            string `json:"status"`
	CurrentPeriodEnd  string `json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd bool   `json:"cancelAtPeriodEnd"`
}
