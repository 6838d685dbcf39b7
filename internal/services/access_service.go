package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vetsidekick/cpd-backend/internal/cache"
	"github.com/vetsidekick/cpd-backend/internal/models"
	"gorm.io/gorm"
)

// ErrAccessUnknown marks an access decision that could not be computed
// because the fact store was unreachable. Callers must treat it as "no
// access" (fail closed) but must not confuse it with a definite denial.
var ErrAccessUnknown = errors.New("could not determine access")

// AccessService is the access evaluator: it answers whether a user has
// standing access to a content item from persisted facts only. It is
// read-only and deterministic; progress-ledger flags never factor in.
type AccessService struct {
	db    *gorm.DB
	cache *cache.AccessCache
}

func NewAccessService(db *gorm.DB, accessCache *cache.AccessCache) *AccessService {
	return &AccessService{db: db, cache: accessCache}
}

// HasAccess reports whether the user may use the content's gated materials:
// a completed purchase for the pair, or an active/trialing subscription
// covering subscription-eligible content. Role-based blanket access is a
// caller-side check (models.Role.HasBlanketAccess), deliberately not here.
func (s *AccessService) HasAccess(userID, contentID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.Purchase{}).
		Scopes(models.ForUser(userID), models.CompletedPurchases()).
		Where("content_id = ?", contentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: purchase lookup: %v", ErrAccessUnknown, err)
	}
	if count > 0 {
		return true, nil
	}

	sub, err := s.ActiveSubscription(userID)
	if err != nil {
		return false, fmt.Errorf("%w: subscription lookup: %v", ErrAccessUnknown, err)
	}
	if sub == nil {
		return false, nil
	}

	var content models.ContentItem
	if err := s.db.First(&content, "id = ?", contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: content lookup: %v", ErrAccessUnknown, err)
	}
	return content.SubscriptionEligible, nil
}

// ActiveSubscription returns the user's access-granting subscription, or
// nil when none exists.
func (s *AccessService) ActiveSubscription(userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Scopes(models.ForUser(userID)).
		Where("status IN ?", []string{models.SubscriptionStatusActive, models.SubscriptionStatusTrialing}).
		Order("current_period_end DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// AccessibleContentIDs returns the derived set of content ids the user
// currently has access to: completed purchases plus, with an active
// subscription, every subscription-eligible item. The set is recomputed on
// each call unless the cache holds a fresh copy.
func (s *AccessService) AccessibleContentIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if ids, ok := s.cache.GetContentIDs(ctx, userID); ok {
		return ids, nil
	}

	var purchased []uuid.UUID
	err := s.db.Model(&models.Purchase{}).
		Scopes(models.ForUser(userID), models.CompletedPurchases()).
		Pluck("content_id", &purchased).Error
	if err != nil {
		return nil, fmt.Errorf("%w: purchase lookup: %v", ErrAccessUnknown, err)
	}

	sub, err := s.ActiveSubscription(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: subscription lookup: %v", ErrAccessUnknown, err)
	}

	seen := make(map[uuid.UUID]struct{}, len(purchased))
	ids := make([]uuid.UUID, 0, len(purchased))
	for _, id := range purchased {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	if sub != nil {
		var eligible []uuid.UUID
		err := s.db.Model(&models.ContentItem{}).
			Where("subscription_eligible = ?", true).
			Pluck("id", &eligible).Error
		if err != nil {
			return nil, fmt.Errorf("%w: catalog lookup: %v", ErrAccessUnknown, err)
		}
		for _, id := range eligible {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	s.cache.SetContentIDs(ctx, userID, ids)
	return ids, nil
}

// InvalidateUser drops the user's cached accessible-id set. Called after
// purchase or subscription writes so the next gating decision re-reads
// facts.
func (s *AccessService) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	s.cache.Invalidate(ctx, userID)
}
