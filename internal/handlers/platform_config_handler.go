package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/vetsidekick/cpd-backend/internal/dto"
	"github.com/vetsidekick/cpd-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlatformConfigHandler struct {
	db *gorm.DB
}

func NewPlatformConfigHandler(db *gorm.DB) *PlatformConfigHandler {
	return &PlatformConfigHandler{db: db}
}

type configSetRequest struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// GetAll handles GET /api/config, returning every setting as a map of
// key to typed value for the web client.
func (h *PlatformConfigHandler) GetAll(c *fiber.Ctx) error {
	var configs []models.PlatformConfig
	if err := h.db.Find(&configs).Error; err != nil {
		slog.Error("platform config load failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Could not load configuration",
		})
	}

	result := make(map[string]interface{}, len(configs))
	for _, cfg := range configs {
		result[cfg.Key] = coerceConfigValue(cfg.Value, cfg.Type)
	}
	return c.JSON(result)
}

// Set handles PUT /api/admin/config/:key, creating or replacing one
// setting.
func (h *PlatformConfigHandler) Set(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Config key is required"})
	}

	var req configSetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}
	if req.Type == "" {
		req.Type = "string"
	}

	record := models.PlatformConfig{Key: key, Value: req.Value, Type: req.Type}
	err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "type", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		slog.Error("platform config write failed", "error", err, "key", key)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Could not save configuration",
		})
	}

	return c.JSON(record)
}

// Delete handles DELETE /api/admin/config/:key.
func (h *PlatformConfigHandler) Delete(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Config key is required"})
	}

	result := h.db.Where("key = ?", key).Delete(&models.PlatformConfig{})
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		slog.Error("platform config delete failed", "error", result.Error, "key", key)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Could not delete configuration",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Config key not found"})
	}

	return c.JSON(fiber.Map{"deleted": true})
}

func coerceConfigValue(value, valueType string) interface{} {
	switch valueType {
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return value
		}
		return b
	case "int":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return value
		}
		return n
	case "json":
		var v interface{}
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return value
		}
		return v
	default:
		return value
	}
}
