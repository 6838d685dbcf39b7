package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vetsidekick/cpd-backend/internal/dto"
	"github.com/vetsidekick/cpd-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrContentTitleRequired = errors.New("Title is required")
	ErrSlugTaken            = errors.New("Slug is already in use")
)

// ContentService manages the purchasable catalog (podcast episodes and CPD
// courses), including special-offer pricing.
type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

func (s *ContentService) List() ([]models.ContentItem, error) {
	var items []models.ContentItem
	if err := s.db.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return items, nil
}

func (s *ContentService) GetByID(id uuid.UUID) (*models.ContentItem, error) {
	var item models.ContentItem
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("content lookup: %w", err)
	}
	return &item, nil
}

func (s *ContentService) Create(req *dto.ContentUpsertRequest) (*models.ContentItem, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrContentTitleRequired
	}

	item := models.ContentItem{
		ID:                   uuid.New(),
		Kind:                 req.Kind,
		Title:                req.Title,
		Slug:                 req.Slug,
		Description:          req.Description,
		Currency:             req.Currency,
		Purchasable:          true,
		SubscriptionEligible: true,
	}
	if item.Kind == "" {
		item.Kind = models.ContentKindPodcast
	}
	if item.Slug == "" {
		item.Slug = slugify(req.Title)
	}
	if req.PriceCents != nil {
		item.PriceCents = *req.PriceCents
	}
	item.SpecialOfferCents = req.SpecialOfferCents
	if req.SpecialOfferActive != nil {
		item.SpecialOfferActive = *req.SpecialOfferActive
	}
	if req.Purchasable != nil {
		item.Purchasable = *req.Purchasable
	}
	if req.SubscriptionEligible != nil {
		item.SubscriptionEligible = *req.SubscriptionEligible
	}

	var existing models.ContentItem
	if err := s.db.Where("slug = ?", item.Slug).First(&existing).Error; err == nil {
		return nil, ErrSlugTaken
	}

	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return &item, nil
}

func (s *ContentService) Update(id uuid.UUID, req *dto.ContentUpsertRequest) (*models.ContentItem, error) {
	item, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Kind != "" {
		updates["kind"] = req.Kind
	}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Slug != "" {
		updates["slug"] = req.Slug
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Currency != "" {
		updates["currency"] = req.Currency
	}
	if req.PriceCents != nil {
		updates["price_cents"] = *req.PriceCents
	}
	if req.SpecialOfferCents != nil {
		updates["special_offer_cents"] = *req.SpecialOfferCents
	}
	if req.SpecialOfferActive != nil {
		updates["special_offer_active"] = *req.SpecialOfferActive
	}
	if req.Purchasable != nil {
		updates["purchasable"] = *req.Purchasable
	}
	if req.SubscriptionEligible != nil {
		updates["subscription_eligible"] = *req.SubscriptionEligible
	}

	if len(updates) > 0 {
		if err := s.db.Model(item).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update content: %w", err)
		}
	}
	return s.GetByID(id)
}

func (s *ContentService) Delete(id uuid.UUID) error {
	item, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.db.Delete(item).Error
}

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	lastDash := false
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
