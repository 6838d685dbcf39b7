package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/vetsidekick/cpd-backend/internal/dto"
	"github.com/vetsidekick/cpd-backend/internal/payments"
	"github.com/vetsidekick/cpd-backend/internal/services"
)

type WebhookHandler struct {
	provider payments.Provider
	webhooks *services.WebhookService
}

func NewWebhookHandler(provider payments.Provider, webhooks *services.WebhookService) *WebhookHandler {
	return &WebhookHandler{provider: provider, webhooks: webhooks}
}

// HandleStripe handles POST /api/webhooks/stripe. The signature is verified
// over the raw request bytes before any JSON decoding; a parsed and
// re-serialized body would not reproduce the signed payload.
func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("Stripe-Signature")

	event, err := h.provider.VerifyEvent(payload, signature)
	if err != nil {
		slog.Warn("webhook signature verification failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid webhook signature",
		})
	}

	if err := h.webhooks.HandleEvent(c.UserContext(), event); err != nil {
		slog.Error("webhook processing failed",
			"error", err, "event_id", event.ID, "event_type", event.Type)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.WebhookError{
			Error:     err.Error(),
			EventType: event.Type,
			EventID:   event.ID,
		})
	}

	return c.JSON(dto.WebhookAck{
		Received:  true,
		EventType: event.Type,
		EventID:   event.ID,
	})
}
