package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/vetsidekick/cpd-backend/internal/config"
	"github.com/vetsidekick/cpd-backend/internal/dto"
	"github.com/vetsidekick/cpd-backend/internal/services"
)

// DevHandler serves development-only tooling. The routes are not
// registered in production, and each handler additionally 404s there so
// a misconfigured router still leaks nothing.
type DevHandler struct {
	devtools *services.DevToolsService
	cfg      *config.Config
}

func NewDevHandler(devtools *services.DevToolsService, cfg *config.Config) *DevHandler {
	return &DevHandler{devtools: devtools, cfg: cfg}
}

// SimulatePurchase handles POST /api/dev/simulate-purchase, recording a
// completed purchase without going through the payment provider.
func (h *DevHandler) SimulatePurchase(c *fiber.Ctx) error {
	if h.cfg.IsProduction() {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var req dto.SimulatePurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid user ID"})
	}
	contentID, err := uuid.Parse(req.ContentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid content ID"})
	}

	purchase, err := h.devtools.SimulatePurchase(c.UserContext(), userID, contentID)
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		if errors.Is(err, services.ErrAlreadyOwned) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		slog.Error("simulated purchase failed", "error", err, "user_id", userID, "content_id", contentID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Could not simulate purchase",
		})
	}

	return c.JSON(fiber.Map{"success": true, "purchase": purchase})
}

// FixPurchaseData handles POST /api/dev/fix-purchase-data, backfilling
// missing fields on historical purchase rows.
func (h *DevHandler) FixPurchaseData(c *fiber.Ctx) error {
	if h.cfg.IsProduction() {
		return c.SendStatus(fiber.StatusNotFound)
	}

	counts, err := h.devtools.FixPurchaseData()
	if err != nil {
		slog.Error("purchase data fix failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Could not fix purchase data",
		})
	}

	return c.JSON(fiber.Map{"success": true, "updated": counts})
}
