package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vetsidekick/cpd-backend/internal/config"
	"github.com/vetsidekick/cpd-backend/internal/dto"
	"github.com/vetsidekick/cpd-backend/internal/models"
	"github.com/vetsidekick/cpd-backend/internal/payments"
	"gorm.io/gorm"
)

// Checkout errors double as wire messages, so they are capitalized
// sentences rather than Go-style lowercase fragments.
var (
	ErrUserIDRequired      = errors.New("User ID is required")
	ErrPriceIDRequired     = errors.New("Price ID is required for subscription")
	ErrContentIDRequired   = errors.New("Content ID is required for content purchase")
	ErrURLsRequired        = errors.New("Success and cancel URLs are required")
	ErrInvalidCheckoutType = errors.New("Invalid checkout type")
	ErrInvalidUserID       = errors.New("Invalid user ID")
	ErrInvalidContentID    = errors.New("Invalid content ID")
	ErrContentNotFound     = errors.New("Content not found")
	ErrNotPurchasable      = errors.New("Content is not available for purchase")
	ErrAlreadyOwned        = errors.New("User already has access to this content")
	ErrAlreadySubscribed   = errors.New("User already has an active subscription")
)

// CheckoutService builds provider checkout sessions after confirming the
// caller does not already have the thing they are paying for. It never
// grants access itself; that happens only in the webhook path.
type CheckoutService struct {
	db       *gorm.DB
	cfg      *config.Config
	provider payments.Provider
	access   *AccessService
}

func NewCheckoutService(db *gorm.DB, cfg *config.Config, provider payments.Provider, access *AccessService) *CheckoutService {
	return &CheckoutService{db: db, cfg: cfg, provider: provider, access: access}
}

// ValidateCheckoutRequest enforces the required-field checks in a fixed
// order; the first failure wins. An empty type means content purchase.
func ValidateCheckoutRequest(req *dto.CheckoutRequest) error {
	if req.UserID == "" {
		return ErrUserIDRequired
	}
	if req.Type == dto.CheckoutTypeSubscription && req.PriceID == "" {
		return ErrPriceIDRequired
	}
	if req.Type == dto.CheckoutTypeContentPurchase && req.ContentID == "" {
		return ErrContentIDRequired
	}
	if req.SuccessURL == "" || req.CancelURL == "" {
		return ErrURLsRequired
	}
	return nil
}

func (s *CheckoutService) CreateSession(req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if req.Type == "" {
		req.Type = dto.CheckoutTypeContentPurchase
	}
	if err := ValidateCheckoutRequest(req); err != nil {
		return nil, err
	}
	if req.Type != dto.CheckoutTypeContentPurchase && req.Type != dto.CheckoutTypeSubscription {
		return nil, ErrInvalidCheckoutType
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	var sess *payments.Session
	switch req.Type {
	case dto.CheckoutTypeSubscription:
		sess, err = s.createSubscriptionSession(userID, req)
	default:
		sess, err = s.createContentSession(userID, req)
	}
	if err != nil {
		return nil, err
	}

	return &dto.CheckoutResponse{
		Success:    true,
		SessionID:  sess.ID,
		SessionURL: sess.URL,
	}, nil
}

func (s *CheckoutService) createContentSession(userID uuid.UUID, req *dto.CheckoutRequest) (*payments.Session, error) {
	contentID, err := uuid.Parse(req.ContentID)
	if err != nil {
		return nil, ErrInvalidContentID
	}

	// Precondition: never sell the same content twice. A fact-store
	// failure here fails closed at the evaluator but must block checkout
	// too, so the error propagates instead of defaulting to "no access".
	owned, err := s.access.HasAccess(userID, contentID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, ErrAlreadyOwned
	}

	var content models.ContentItem
	if err := s.db.First(&content, "id = ?", contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("content lookup: %w", err)
	}
	if !content.Purchasable {
		return nil, ErrNotPurchasable
	}

	amount := content.EffectivePriceCents()
	if req.PriceCents != nil && *req.PriceCents > 0 {
		amount = *req.PriceCents
	}
	currency := content.Currency
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	return s.provider.CreateCheckoutSession(payments.CheckoutParams{
		Mode:        payments.ModePayment,
		UserID:      userID.String(),
		ContentID:   contentID.String(),
		ProductName: content.Title,
		AmountCents: amount,
		Currency:    currency,
		SuccessURL:  req.SuccessURL,
		CancelURL:   req.CancelURL,
	})
}

func (s *CheckoutService) createSubscriptionSession(userID uuid.UUID, req *dto.CheckoutRequest) (*payments.Session, error) {
	sub, err := s.access.ActiveSubscription(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: subscription lookup: %v", ErrAccessUnknown, err)
	}
	if sub != nil {
		return nil, ErrAlreadySubscribed
	}

	return s.provider.CreateCheckoutSession(payments.CheckoutParams{
		Mode:       payments.ModeSubscription,
		UserID:     userID.String(),
		PriceID:    req.PriceID,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
}

// IsCheckoutValidationError reports whether err is one of the synchronous
// caller-fixable checkout failures (validation or conflict), as opposed to
// an upstream provider or fact-store failure.
func IsCheckoutValidationError(err error) bool {
	for _, target := range []error{
		ErrUserIDRequired, ErrPriceIDRequired, ErrContentIDRequired,
		ErrURLsRequired, ErrInvalidCheckoutType, ErrInvalidUserID,
		ErrInvalidContentID, ErrNotPurchasable, ErrAlreadyOwned,
		ErrAlreadySubscribed,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
