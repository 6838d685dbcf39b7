package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vetsidekick/cpd-backend/internal/config"
	"github.com/vetsidekick/cpd-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DevToolsService backs the local-only simulate/repair endpoints. Routes to
// it are never registered in production.
type DevToolsService struct {
	db     *gorm.DB
	cfg    *config.Config
	access *AccessService
}

func NewDevToolsService(db *gorm.DB, cfg *config.Config, access *AccessService) *DevToolsService {
	return &DevToolsService{db: db, cfg: cfg, access: access}
}

// SimulatePurchase records a completed purchase the same way the webhook
// path does, so checkout flows can be exercised without provider events.
func (s *DevToolsService) SimulatePurchase(ctx context.Context, userID, contentID uuid.UUID) (*models.Purchase, error) {
	var content models.ContentItem
	if err := s.db.First(&content, "id = ?", contentID).Error; err != nil {
		return nil, ErrContentNotFound
	}

	purchase := models.Purchase{
		ID:                uuid.New(),
		UserID:            userID,
		ContentID:         contentID,
		CheckoutSessionID: "cs_sim_" + uuid.NewString(),
		PaymentIntentID:   "pi_sim_" + uuid.NewString(),
		AmountCents:       content.EffectivePriceCents(),
		Currency:          content.Currency,
		Status:            models.PurchaseStatusCompleted,
		PurchasedAt:       time.Now().UTC(),
	}
	if purchase.Currency == "" {
		purchase.Currency = s.cfg.DefaultCurrency
	}

	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&purchase)
	if res.Error != nil {
		return nil, fmt.Errorf("persist simulated purchase: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyOwned
	}

	s.access.InvalidateUser(ctx, userID)
	slog.Info("simulated purchase recorded", "user_id", userID, "content_id", contentID)
	return &purchase, nil
}

// FixPurchaseData normalizes legacy purchase rows: missing timestamps,
// empty currency, empty status. Returns per-repair row counts.
func (s *DevToolsService) FixPurchaseData() (map[string]int64, error) {
	counts := make(map[string]int64)

	res := s.db.Model(&models.Purchase{}).
		Where("purchased_at IS NULL OR purchased_at = ?", time.Time{}).
		Update("purchased_at", gorm.Expr("created_at"))
	if res.Error != nil {
		return nil, fmt.Errorf("backfill purchased_at: %w", res.Error)
	}
	counts["purchased_at_backfilled"] = res.RowsAffected

	res = s.db.Model(&models.Purchase{}).
		Where("currency = ''").
		Update("currency", s.cfg.DefaultCurrency)
	if res.Error != nil {
		return nil, fmt.Errorf("normalize currency: %w", res.Error)
	}
	counts["currency_normalized"] = res.RowsAffected

	res = s.db.Model(&models.Purchase{}).
		Where("status = ''").
		Update("status", models.PurchaseStatusCompleted)
	if res.Error != nil {
		return nil, fmt.Errorf("normalize status: %w", res.Error)
	}
	counts["status_normalized"] = res.RowsAffected

	return counts, nil
}
