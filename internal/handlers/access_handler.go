package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/vetsidekick/cpd-backend/internal/authctx"
	"github.com/vetsidekick/cpd-backend/internal/dto"
	"github.com/vetsidekick/cpd-backend/internal/gate"
	"github.com/vetsidekick/cpd-backend/internal/services"
)

type AccessHandler struct {
	access *services.AccessService
	gate   *gate.Gate
}

func NewAccessHandler(access *services.AccessService, g *gate.Gate) *AccessHandler {
	return &AccessHandler{access: access, gate: g}
}

// Check handles GET /api/access/check?contentId=... for the
// authenticated user. Admin roles have blanket access and skip the
// evaluator entirely.
func (h *AccessHandler) Check(c *fiber.Ctx) error {
	identity, err := authctx.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
	}

	contentID, err := uuid.Parse(c.Query("contentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid content ID"})
	}

	if identity.Role.HasBlanketAccess() {
		return c.JSON(dto.AccessCheckResponse{HasAccess: true})
	}

	hasAccess, err := h.gate.Check(identity.UserID, contentID)
	if err != nil {
		// Indeterminate is not a denial: the client keeps its gate shut
		// and may retry, rather than caching a false "no access".
		slog.Error("access check failed", "error", err,
			"user_id", identity.UserID, "content_id", contentID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Could not determine access",
		})
	}

	return c.JSON(dto.AccessCheckResponse{HasAccess: hasAccess})
}

// ListAccessible handles GET /api/access/content, returning every
// content id the authenticated user can open.
func (h *AccessHandler) ListAccessible(c *fiber.Ctx) error {
	identity, err := authctx.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
	}

	ids, err := h.access.AccessibleContentIDs(c.UserContext(), identity.UserID)
	if err != nil {
		slog.Error("accessible content lookup failed", "error", err, "user_id", identity.UserID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Could not determine accessible content",
		})
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}

	return c.JSON(dto.AccessibleContentResponse{ContentIDs: ids})
}

// Refresh handles POST /api/access/refresh. Clients call it after a
// purchase-completion signal so the next check re-reads facts.
func (h *AccessHandler) Refresh(c *fiber.Ctx) error {
	identity, err := authctx.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
	}

	h.gate.Refresh(identity.UserID)
	h.access.InvalidateUser(c.UserContext(), identity.UserID)

	return c.JSON(fiber.Map{"refreshed": true})
}

// SubscriptionStatus handles GET /api/subscription for the
// authenticated user.
func (h *AccessHandler) SubscriptionStatus(c *fiber.Ctx) error {
	identity, err := authctx.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
	}

	sub, err := h.access.ActiveSubscription(identity.UserID)
	if err != nil {
		slog.Error("subscription lookup failed", "error", err, "user_id", identity.UserID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Could not load subscription",
		})
	}
	if sub == nil {
		return c.JSON(dto.SubscriptionStatusResponse{Active: false, Status: "none"})
	}

	resp := dto.SubscriptionStatusResponse{
		Active:            sub.GrantsAccess(),
		Status:            sub.Status,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if !sub.CurrentPeriodEnd.IsZero() {
		resp.CurrentPeriodEnd = sub.CurrentPeriodEnd.Format(time.RFC3339)
	}
	return c.JSON(resp)
}
