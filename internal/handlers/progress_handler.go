package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/vetsidekick/cpd-backend/internal/dto"
	"github.com/vetsidekick/cpd-backend/internal/services"
)

type ProgressHandler struct {
	progress *services.ProgressService
}

func NewProgressHandler(progress *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// Get handles GET /api/progress?userId=...&contentId=... and returns the
// ledger row, or a zeroed record when the user has never touched the
// content. Progress is reporting data only; access checks never read it.
func (h *ProgressHandler) Get(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid user ID"})
	}
	contentID, err := uuid.Parse(c.Query("contentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid content ID"})
	}

	record, err := h.progress.Get(userID, contentID)
	if err != nil {
		slog.Error("progress lookup failed", "error", err, "user_id", userID, "content_id", contentID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Could not load progress",
		})
	}

	return c.JSON(record)
}

// Update handles POST /api/progress, applying one action to the ledger.
func (h *ProgressHandler) Update(c *fiber.Ctx) error {
	var req dto.ProgressUpdateRequest
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

	record, err := h.progress.Apply(userID, contentID, req.Action, req.Data)
	if err != nil {
		if errors.Is(err, services.ErrUnknownProgressAction) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		slog.Error("progress update failed", "error", err,
			"user_id", userID, "content_id", contentID, "action", req.Action)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Could not record progress",
		})
	}

	return c.JSON(record)
}
