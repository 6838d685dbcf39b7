package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vetsidekick/cpd-backend/internal/config"
	"github.com/vetsidekick/cpd-backend/internal/models"
	"github.com/vetsidekick/cpd-backend/internal/payments"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WebhookService turns verified provider events into durable purchase and
// subscription facts. Every write is an insert-if-absent or a keyed upsert,
// so concurrent and replayed deliveries converge without read-then-write
// races.
type WebhookService struct {
	db       *gorm.DB
	cfg      *config.Config
	provider payments.Provider
	access   *AccessService
}

func NewWebhookService(db *gorm.DB, cfg *config.Config, provider payments.Provider, access *AccessService) *WebhookService {
	return &WebhookService{db: db, cfg: cfg, provider: provider, access: access}
}

// HandleEvent processes one verified event. A non-nil return means the
// processing failure is critical (facts could not be persisted) and the
// provider should redeliver; bookkeeping failures are logged and absorbed.
func (s *WebhookService) HandleEvent(ctx context.Context, event payments.Event) error {
	proceed, err := s.recordEvent(event)
	if err != nil {
		// The dedup ledger is bookkeeping; the purchase and subscription
		// unique constraints still hold if we process without it.
		slog.Error("webhook ledger write failed", "error", err, "event_id", event.ID)
		proceed = true
	}
	if !proceed {
		slog.Info("webhook replay ignored", "event_id", event.ID, "event_type", event.Type)
		return nil
	}

	var procErr error
	switch event.Type {
	case payments.EventCheckoutSessionCompleted:
		procErr = s.handleCheckoutCompleted(ctx, event)
	case payments.EventSubscriptionCreated, payments.EventSubscriptionUpdated, payments.EventSubscriptionDeleted:
		procErr = s.handleSubscriptionEvent(ctx, event)
	case payments.EventInvoicePaymentSucceeded, payments.EventInvoicePaymentFailed:
		procErr = s.handleInvoiceEvent(ctx, event)
	default:
		// Unknown kinds are acknowledged so the provider stops resending.
	}

	s.markProcessed(event.ID, procErr)
	return procErr
}

// recordEvent inserts the event into the dedup ledger. It returns false
// when the event was already processed successfully; an earlier failed or
// unfinished attempt is processed again.
func (s *WebhookService) recordEvent(event payments.Event) (bool, error) {
	rec := models.WebhookEvent{
		ID:              uuid.New(),
		ProviderEventID: event.ID,
		EventType:       event.Type,
		Payload:         datatypes.JSON(event.Payload),
	}
	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
	if res.Error != nil {
		return true, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var existing models.WebhookEvent
	if err := s.db.Where("provider_event_id = ?", event.ID).First(&existing).Error; err != nil {
		return true, err
	}
	done := existing.ProcessedAt != nil && existing.ProcessingError == ""
	return !done, nil
}

func (s *WebhookService) markProcessed(providerEventID string, procErr error) {
	updates := map[string]interface{}{
		"processed_at":     time.Now().UTC(),
		"processing_error": "",
	}
	if procErr != nil {
		updates["processing_error"] = procErr.Error()
	}
	err := s.db.Model(&models.WebhookEvent{}).
		Where("provider_event_id = ?", providerEventID).
		Updates(updates).Error
	if err != nil {
		slog.Error("webhook ledger update failed", "error", err, "event_id", providerEventID)
	}
}

func (s *WebhookService) handleCheckoutCompleted(ctx context.Context, event payments.Event) error {
	sess, err := payments.ParseCheckoutSession(event.Payload)
	if err != nil {
		return err
	}

	if sess.Mode == payments.ModeSubscription {
		return s.completeSubscriptionCheckout(ctx, sess)
	}
	return s.completeContentCheckout(ctx, sess)
}

// completeContentCheckout creates the purchase fact, exactly once per
// checkout session. The insert races on the unique constraints, never on a
// prior read.
func (s *WebhookService) completeContentCheckout(ctx context.Context, sess *payments.CheckoutSessionPayload) error {
	userID, contentID, err := sessionParties(sess)
	if err != nil {
		return err
	}

	currency := sess.Currency
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	purchase := models.Purchase{
		ID:                uuid.New(),
		UserID:            userID,
		ContentID:         contentID,
		CheckoutSessionID: sess.ID,
		PaymentIntentID:   sess.PaymentIntent,
		AmountCents:       sess.AmountTotal,
		Currency:          currency,
		Status:            models.PurchaseStatusCompleted,
		PurchasedAt:       time.Now().UTC(),
	}

	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&purchase)
	if res.Error != nil {
		return fmt.Errorf("persist purchase: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		slog.Info("duplicate purchase delivery ignored",
			"session_id", sess.ID, "user_id", userID, "content_id", contentID)
		return nil
	}

	slog.Info("purchase recorded",
		"session_id", sess.ID, "user_id", userID, "content_id", contentID,
		"amount_cents", purchase.AmountCents, "currency", purchase.Currency)
	s.access.InvalidateUser(ctx, userID)
	return nil
}

func (s *WebhookService) completeSubscriptionCheckout(ctx context.Context, sess *payments.CheckoutSessionPayload) error {
	if sess.Subscription == "" {
		return fmt.Errorf("subscription checkout session %s carries no subscription id", sess.ID)
	}

	state, err := s.provider.GetSubscription(sess.Subscription)
	if err != nil {
		return err
	}

	userID := uuid.Nil
	if sess.ClientReferenceID != "" {
		if id, err := uuid.Parse(sess.ClientReferenceID); err == nil {
			userID = id
		}
	}
	if userID == uuid.Nil {
		if id, ok := sess.Metadata["user_id"]; ok {
			if parsed, err := uuid.Parse(id); err == nil {
				userID = parsed
			}
		}
	}
	if userID == uuid.Nil {
		return fmt.Errorf("subscription checkout session %s carries no user reference", sess.ID)
	}

	if err := s.upsertSubscription(subscriptionFromState(state, userID)); err != nil {
		return err
	}
	s.access.InvalidateUser(ctx, userID)
	return nil
}

func (s *WebhookService) handleSubscriptionEvent(ctx context.Context, event payments.Event) error {
	payload, err := payments.ParseSubscription(event.Payload)
	if err != nil {
		return err
	}

	userID := s.resolveSubscriber(payload.ID, payload.Customer)
	sub := models.Subscription{
		ID:                 uuid.New(),
		UserID:             userID,
		ProviderSubID:      payload.ID,
		ProviderCustomerID: payload.Customer,
		Status:             payload.Status,
		CurrentPeriodStart: time.Unix(payload.CurrentPeriodStart, 0).UTC(),
		CurrentPeriodEnd:   time.Unix(payload.CurrentPeriodEnd, 0).UTC(),
		CancelAtPeriodEnd:  payload.CancelAtPeriodEnd,
	}
	if len(payload.Items.Data) > 0 {
		sub.PriceID = payload.Items.Data[0].Price.ID
	}
	if event.Type == payments.EventSubscriptionDeleted && sub.Status == "" {
		sub.Status = models.SubscriptionStatusCanceled
	}

	if err := s.upsertSubscription(sub); err != nil {
		return err
	}
	if userID != uuid.Nil {
		s.access.InvalidateUser(ctx, userID)
	}
	return nil
}

// handleInvoiceEvent re-fetches the subscription from the provider instead
// of trusting the invoice snapshot, so renewal and failure events converge
// on provider state regardless of arrival order.
func (s *WebhookService) handleInvoiceEvent(ctx context.Context, event payments.Event) error {
	payload, err := payments.ParseInvoice(event.Payload)
	if err != nil {
		return err
	}
	if payload.Subscription == "" {
		return nil
	}

	state, err := s.provider.GetSubscription(payload.Subscription)
	if err != nil {
		return err
	}

	userID := s.resolveSubscriber(state.ID, state.CustomerID)
	if err := s.upsertSubscription(subscriptionFromState(state, userID)); err != nil {
		return err
	}
	if userID != uuid.Nil {
		s.access.InvalidateUser(ctx, userID)
	}
	return nil
}

// upsertSubscription writes provider state last-write-wins keyed by the
// provider subscription id. user_id only moves from unlinked to linked:
// a subscription event arriving before the checkout that carries the user
// reference inserts an unlinked row, and the checkout fills it in later,
// while events without a user reference can never clobber an established
// link.
func (s *WebhookService) upsertSubscription(sub models.Subscription) error {
	res := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_sub_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"user_id": gorm.Expr(
				"CASE WHEN subscriptions.user_id = ? THEN excluded.user_id ELSE subscriptions.user_id END",
				uuid.Nil),
			"status":               sub.Status,
			"price_id":             sub.PriceID,
			"provider_customer_id": sub.ProviderCustomerID,
			"current_period_start": sub.CurrentPeriodStart,
			"current_period_end":   sub.CurrentPeriodEnd,
			"cancel_at_period_end": sub.CancelAtPeriodEnd,
			"updated_at":           time.Now().UTC(),
		}),
	}).Create(&sub)
	if res.Error != nil {
		return fmt.Errorf("persist subscription %s: %w", sub.ProviderSubID, res.Error)
	}
	return nil
}

// resolveSubscriber finds the user behind a provider subscription, first by
// subscription id, then by customer id from any earlier subscription row.
func (s *WebhookService) resolveSubscriber(providerSubID, customerID string) uuid.UUID {
	var sub models.Subscription
	if err := s.db.Where("provider_sub_id = ?", providerSubID).First(&sub).Error; err == nil {
		return sub.UserID
	}
	if customerID != "" {
		if err := s.db.Where("provider_customer_id = ?", customerID).First(&sub).Error; err == nil {
			return sub.UserID
		}
	}
	return uuid.Nil
}

func sessionParties(sess *payments.CheckoutSessionPayload) (uuid.UUID, uuid.UUID, error) {
	rawUser := sess.Metadata["user_id"]
	if rawUser == "" {
		rawUser = sess.ClientReferenceID
	}
	userID, err := uuid.Parse(rawUser)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("checkout session %s has no valid user id", sess.ID)
	}
	contentID, err := uuid.Parse(sess.Metadata["content_id"])
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("checkout session %s has no valid content id", sess.ID)
	}
	return userID, contentID, nil
}

func subscriptionFromState(state *payments.SubscriptionState, userID uuid.UUID) models.Subscription {
	return models.Subscription{
		ID:                 uuid.New(),
		UserID:             userID,
		ProviderSubID:      state.ID,
		ProviderCustomerID: state.CustomerID,
		PriceID:            state.PriceID,
		Status:             state.Status,
		CurrentPeriodStart: state.CurrentPeriodStart,
		CurrentPeriodEnd:   state.CurrentPeriodEnd,
		CancelAtPeriodEnd:  state.CancelAtPeriodEnd,
	}
}
