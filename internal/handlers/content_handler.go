package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/vetsidekick/cpd-backend/internal/dto"
	"github.com/vetsidekick/cpd-backend/internal/services"
)

type ContentHandler struct {
	content *services.ContentService
}

func NewContentHandler(content *services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// List handles GET /api/content (public catalog).
func (h *ContentHandler) List(c *fiber.Ctx) error {
	items, err := h.content.List()
	if err != nil {
		slog.Error("content list failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Could not load content",
		})
	}
	return c.JSON(items)
}

// Get handles GET /api/content/:id.
func (h *ContentHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid content ID"})
	}

	item, err := h.content.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		slog.Error("content lookup failed", "error", err, "content_id", id)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Could not load content",
		})
	}
	return c.JSON(item)
}

// Create handles POST /api/admin/content.
func (h *ContentHandler) Create(c *fiber.Ctx) error {
	var req dto.ContentUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	item, err := h.content.Create(&req)
	if err != nil {
		if errors.Is(err, services.ErrContentTitleRequired) || errors.Is(err, services.ErrSlugTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		slog.Error("content create failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Could not create content",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update handles PUT /api/admin/content/:id.
func (h *ContentHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid content ID"})
	}

	var req dto.ContentUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	item, err := h.content.Update(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		if errors.Is(err, services.ErrSlugTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		slog.Error("content update failed", "error", err, "content_id", id)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Could not update content",
		})
	}
	return c.JSON(item)
}

// Delete handles DELETE /api/admin/content/:id (soft delete).
func (h *ContentHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid content ID"})
	}

	if err := h.content.Delete(id); err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		slog.Error("content delete failed", "error", err, "content_id", id)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Could not delete content",
		})
	}
	return c.JSON(fiber.Map{"deleted": true})
}
