package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/vetsidekick/cpd-backend/internal/config"
	"github.com/vetsidekick/cpd-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Seed populates an empty development database with an admin user and a
// small catalog. It is a no-op when any users already exist.
func Seed(cfg *config.Config) error {
	var count int64
	if err := DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	admin := models.User{
		Email:         "admin@vetsidekick.local",
		Password:      string(hash),
		Role:          models.RoleAdmin,
		EmailVerified: true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	now := time.Now()
	offer := int64(999)
	catalog := []models.ContentItem{
		{
			Kind:                 models.ContentKindPodcast,
			Title:                "Canine Dentistry Essentials",
			Slug:                 "canine-dentistry-essentials",
			Description:          "An introduction to periodontal assessment in first-opinion practice.",
			PriceCents:           1499,
			Currency:             cfg.DefaultCurrency,
			Purchasable:          true,
			SubscriptionEligible: true,
			PublishedAt:          &now,
		},
		{
			Kind:                 models.ContentKindCourse,
			Title:                "Feline Anaesthesia Refresher",
			Slug:                 "feline-anaesthesia-refresher",
			Description:          "A CPD course covering protocol selection and monitoring.",
			PriceCents:           2999,
			Currency:             cfg.DefaultCurrency,
			SpecialOfferCents:    &offer,
			SpecialOfferActive:   true,
			Purchasable:          true,
			SubscriptionEligible: true,
			PublishedAt:          &now,
		},
		{
			Kind:                 models.ContentKindPodcast,
			Title:                "Practice Management Roundtable",
			Slug:                 "practice-management-roundtable",
			Description:          "Subscriber-only discussion, not sold individually.",
			PriceCents:           0,
			Currency:             cfg.DefaultCurrency,
			Purchasable:          false,
			SubscriptionEligible: true,
			PublishedAt:          &now,
		},
	}
	if err := DB.Create(&catalog).Error; err != nil {
		return fmt.Errorf("seed insert catalog: %w", err)
	}

	slog.Info("database seeded",
		"admin_email", admin.Email,
		"catalog_items", len(catalog),
	)
	return nil
}
