package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vetsidekick/cpd-backend/internal/config"
	"github.com/vetsidekick/cpd-backend/internal/dto"
	"github.com/vetsidekick/cpd-backend/internal/models"
	"github.com/vetsidekick/cpd-backend/internal/payments"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB connects to the test Postgres, migrates, and truncates all
// tables. Tests are skipped when no database is reachable, so the full
// suite still passes on machines without one.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=cpd_test port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.ContentItem{},
		&models.Purchase{},
		&models.Subscription{},
		&models.ContentProgress{},
		&models.WebhookEvent{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	err = db.Exec(`TRUNCATE TABLE users, content_items, purchases, subscriptions,
		content_progresses, webhook_events RESTART IDENTITY CASCADE`).Error
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.New(),
		Email:    fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8]),
		Password: "x",
		Role:     models.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createTestContent(t *testing.T, db *gorm.DB, eligible bool) *models.ContentItem {
	t.Helper()
	content := models.ContentItem{
		ID:                   uuid.New(),
		Kind:                 models.ContentKindPodcast,
		Title:                "Test Episode",
		Slug:                 "test-episode-" + uuid.NewString()[:8],
		PriceCents:           1499,
		Currency:             "gbp",
		Purchasable:          true,
		SubscriptionEligible: eligible,
	}
	if err := db.Create(&content).Error; err != nil {
		t.Fatalf("create content: %v", err)
	}
	return &content
}

func createCompletedPurchase(t *testing.T, db *gorm.DB, userID, contentID uuid.UUID) {
	t.Helper()
	purchase := models.Purchase{
		ID:                uuid.New(),
		UserID:            userID,
		ContentID:         contentID,
		CheckoutSessionID: "cs_test_" + uuid.NewString()[:8],
		AmountCents:       1499,
		Currency:          "gbp",
		Status:            models.PurchaseStatusCompleted,
		PurchasedAt:       time.Now().UTC(),
	}
	if err := db.Create(&purchase).Error; err != nil {
		t.Fatalf("create purchase: %v", err)
	}
}

func createSubscription(t *testing.T, db *gorm.DB, userID uuid.UUID, status string) {
	t.Helper()
	sub := models.Subscription{
		ID:                 uuid.New(),
		UserID:             userID,
		ProviderSubID:      "sub_test_" + uuid.NewString()[:8],
		ProviderCustomerID: "cus_test_" + uuid.NewString()[:8],
		Status:             status,
		CurrentPeriodStart: time.Now().Add(-time.Hour),
		CurrentPeriodEnd:   time.Now().Add(30 * 24 * time.Hour),
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("create subscription: %v", err)
	}
}

// mockProvider stands in for Stripe in service tests.
type mockProvider struct {
	session    payments.Session
	subState   *payments.SubscriptionState
	err        error
	lastParams payments.CheckoutParams
	calls      int
}

func (m *mockProvider) CreateCheckoutSession(p payments.CheckoutParams) (*payments.Session, error) {
	m.calls++
	m.lastParams = p
	if m.err != nil {
		return nil, m.err
	}
	return &m.session, nil
}

func (m *mockProvider) GetSubscription(id string) (*payments.SubscriptionState, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.subState, nil
}

func (m *mockProvider) VerifyEvent(payload []byte, sigHeader string) (payments.Event, error) {
	return payments.Event{}, errors.New("not used in service tests")
}

func testConfig() *config.Config {
	return &config.Config{DefaultCurrency: "gbp"}
}

func TestAccessEvaluatorFacts(t *testing.T) {
	db := setupTestDB(t)
	access := NewAccessService(db, nil)

	eligible := createTestContent(t, db, true)
	ineligible := createTestContent(t, db, false)

	t.Run("no facts means no access", func(t *testing.T) {
		user := createTestUser(t, db)
		ok, err := access.HasAccess(user.ID, eligible.ID)
		if err != nil {
			t.Fatalf("HasAccess() error = %v", err)
		}
		if ok {
			t.Error("HasAccess() = true for user with no purchases or subscription")
		}
	})

	t.Run("completed purchase grants access", func(t *testing.T) {
		user := createTestUser(t, db)
		createCompletedPurchase(t, db, user.ID, eligible.ID)
		ok, err := access.HasAccess(user.ID, eligible.ID)
		if err != nil {
			t.Fatalf("HasAccess() error = %v", err)
		}
		if !ok {
			t.Error("HasAccess() = false despite completed purchase")
		}
	})

	t.Run("purchase does not leak to other content", func(t *testing.T) {
		user := createTestUser(t, db)
		createCompletedPurchase(t, db, user.ID, eligible.ID)
		ok, err := access.HasAccess(user.ID, ineligible.ID)
		if err != nil {
			t.Fatalf("HasAccess() error = %v", err)
		}
		if ok {
			t.Error("HasAccess() = true for content the user never bought")
		}
	})

	t.Run("refunded purchase grants nothing", func(t *testing.T) {
		user := createTestUser(t, db)
		purchase := models.Purchase{
			ID:                uuid.New(),
			UserID:            user.ID,
			ContentID:         eligible.ID,
			CheckoutSessionID: "cs_test_" + uuid.NewString()[:8],
			Status:            models.PurchaseStatusRefunded,
			PurchasedAt:       time.Now().UTC(),
		}
		if err := db.Create(&purchase).Error; err != nil {
			t.Fatalf("create purchase: %v", err)
		}
		ok, err := access.HasAccess(user.ID, eligible.ID)
		if err != nil {
			t.Fatalf("HasAccess() error = %v", err)
		}
		if ok {
			t.Error("HasAccess() = true for refunded purchase")
		}
	})

	t.Run("active subscription covers eligible content only", func(t *testing.T) {
		user := createTestUser(t, db)
		createSubscription(t, db, user.ID, models.SubscriptionStatusActive)

		if ok, _ := access.HasAccess(user.ID, eligible.ID); !ok {
			t.Error("HasAccess() = false for subscriber on eligible content")
		}
		if ok, _ := access.HasAccess(user.ID, ineligible.ID); ok {
			t.Error("HasAccess() = true for subscriber on ineligible content")
		}
	})

	t.Run("trialing subscription grants access", func(t *testing.T) {
		user := createTestUser(t, db)
		createSubscription(t, db, user.ID, models.SubscriptionStatusTrialing)
		if ok, _ := access.HasAccess(user.ID, eligible.ID); !ok {
			t.Error("HasAccess() = false for trialing subscriber")
		}
	})

	t.Run("lapsed subscription grants nothing", func(t *testing.T) {
		for _, status := range []string{
			models.SubscriptionStatusPastDue,
			models.SubscriptionStatusCanceled,
			models.SubscriptionStatusIncomplete,
			models.SubscriptionStatusExpired,
		} {
			user := createTestUser(t, db)
			createSubscription(t, db, user.ID, status)
			if ok, _ := access.HasAccess(user.ID, eligible.ID); ok {
				t.Errorf("HasAccess() = true for %s subscription", status)
			}
		}
	})

	t.Run("unknown content is a definite denial", func(t *testing.T) {
		user := createTestUser(t, db)
		createSubscription(t, db, user.ID, models.SubscriptionStatusActive)
		ok, err := access.HasAccess(user.ID, uuid.New())
		if err != nil {
			t.Fatalf("HasAccess() error = %v", err)
		}
		if ok {
			t.Error("HasAccess() = true for nonexistent content")
		}
	})
}

// Progress milestones are reporting data. Even a row with every flag set
// must never influence the evaluator.
func TestAccessEvaluatorIgnoresProgressFlags(t *testing.T) {
	db := setupTestDB(t)
	access := NewAccessService(db, nil)
	progress := NewProgressService(db)

	user := createTestUser(t, db)
	content := createTestContent(t, db, true)

	for _, action := range []string{
		"listen_progress", "quiz_completed", "report_downloaded", "certificate_downloaded",
	} {
		if _, err := progress.Apply(user.ID, content.ID, action, []byte(`{"seconds":600,"percent":100}`)); err != nil {
			t.Fatalf("Apply(%s) error = %v", action, err)
		}
	}

	record, err := progress.Get(user.ID, content.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !record.CertificateDownloaded || !record.QuizCompleted {
		t.Fatalf("ledger flags not recorded: %+v", record)
	}

	ok, err := access.HasAccess(user.ID, content.ID)
	if err != nil {
		t.Fatalf("HasAccess() error = %v", err)
	}
	if ok {
		t.Error("HasAccess() = true from progress flags alone")
	}
}

func TestAccessEvaluatorFailsClosed(t *testing.T) {
	db := setupTestDB(t)
	access := NewAccessService(db, nil)

	// Kill the pool so every query fails.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.Close()

	ok, err := access.HasAccess(uuid.New(), uuid.New())
	if ok {
		t.Error("HasAccess() = true with unreachable store")
	}
	if !errors.Is(err, ErrAccessUnknown) {
		t.Errorf("HasAccess() error = %v, want ErrAccessUnknown", err)
	}
}

func TestAccessibleContentIDs(t *testing.T) {
	db := setupTestDB(t)
	access := NewAccessService(db, nil)
	ctx := context.Background()

	purchasedOnly := createTestContent(t, db, false)
	eligible := createTestContent(t, db, true)
	createTestContent(t, db, false) // in catalog, never accessible

	user := createTestUser(t, db)
	createCompletedPurchase(t, db, user.ID, purchasedOnly.ID)

	ids, err := access.AccessibleContentIDs(ctx, user.ID)
	if err != nil {
		t.Fatalf("AccessibleContentIDs() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != purchasedOnly.ID {
		t.Fatalf("AccessibleContentIDs() = %v, want [%s]", ids, purchasedOnly.ID)
	}

	createSubscription(t, db, user.ID, models.SubscriptionStatusActive)
	ids, err = access.AccessibleContentIDs(ctx, user.ID)
	if err != nil {
		t.Fatalf("AccessibleContentIDs() error = %v", err)
	}
	want := map[uuid.UUID]bool{purchasedOnly.ID: true, eligible.ID: true}
	if len(ids) != len(want) {
		t.Fatalf("AccessibleContentIDs() = %v, want purchase plus eligible catalog", ids)
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("unexpected accessible id %s", id)
		}
	}
}

func checkoutCompletedEvent(eventID, sessionID string, userID, contentID uuid.UUID) payments.Event {
	payload := fmt.Sprintf(`{
		"id": %q,
		"mode": "payment",
		"payment_intent": "pi_test_1",
		"amount_total": 1499,
		"currency": "gbp",
		"metadata": {"user_id": %q, "content_id": %q}
	}`, sessionID, userID, contentID)
	return payments.Event{ID: eventID, Type: payments.EventCheckoutSessionCompleted, Payload: []byte(payload)}
}

func TestWebhookPurchaseIdempotent(t *testing.T) {
	db := setupTestDB(t)
	access := NewAccessService(db, nil)
	svc := NewWebhookService(db, testConfig(), &mockProvider{}, access)
	ctx := context.Background()

	user := createTestUser(t, db)
	content := createTestContent(t, db, true)

	event := checkoutCompletedEvent("evt_test_1", "cs_test_1", user.ID, content.ID)
	if err := svc.HandleEvent(ctx, event); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	// Same event redelivered by the provider.
	if err := svc.HandleEvent(ctx, event); err != nil {
		t.Fatalf("HandleEvent() replay error = %v", err)
	}

	// A different event id for the same checkout session still hits the
	// session unique constraint.
	dup := checkoutCompletedEvent("evt_test_2", "cs_test_1", user.ID, content.ID)
	if err := svc.HandleEvent(ctx, dup); err != nil {
		t.Fatalf("HandleEvent() duplicate session error = %v", err)
	}

	var count int64
	if err := db.Model(&models.Purchase{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count purchases: %v", err)
	}
	if count != 1 {
		t.Fatalf("purchase count = %d after three deliveries, want 1", count)
	}

	ok, err := access.HasAccess(user.ID, content.ID)
	if err != nil {
		t.Fatalf("HasAccess() error = %v", err)
	}
	if !ok {
		t.Error("HasAccess() = false after recorded purchase")
	}
}

func TestWebhookRejectsSessionWithoutParties(t *testing.T) {
	db := setupTestDB(t)
	svc := NewWebhookService(db, testConfig(), &mockProvider{}, NewAccessService(db, nil))

	event := payments.Event{
		ID:      "evt_test_bad",
		Type:    payments.EventCheckoutSessionCompleted,
		Payload: []byte(`{"id":"cs_test_bad","mode":"payment","metadata":{}}`),
	}
	if err := svc.HandleEvent(context.Background(), event); err == nil {
		t.Fatal("HandleEvent() accepted a session with no user or content reference")
	}

	// The failed attempt stays replayable: a corrected redelivery under
	// the same event id must be processed, not skipped.
	var rec models.WebhookEvent
	if err := db.Where("provider_event_id = ?", "evt_test_bad").First(&rec).Error; err != nil {
		t.Fatalf("ledger row missing: %v", err)
	}
	if rec.ProcessingError == "" {
		t.Error("ledger row carries no processing error")
	}
}

func subscriptionEvent(eventID, eventType, subID, status string) payments.Event {
	payload := fmt.Sprintf(`{
		"id": %q,
		"status": %q,
		"customer": "cus_test_1",
		"cancel_at_period_end": false,
		"current_period_start": %d,
		"current_period_end": %d,
		"items": {"data": [{"price": {"id": "price_test_1"}}]}
	}`, subID, status, time.Now().Add(-time.Hour).Unix(), time.Now().Add(30*24*time.Hour).Unix())
	return payments.Event{ID: eventID, Type: eventType, Payload: []byte(payload)}
}

func TestWebhookSubscriptionLifecycle(t *testing.T) {
	db := setupTestDB(t)
	access := NewAccessService(db, nil)
	ctx := context.Background()

	user := createTestUser(t, db)
	content := createTestContent(t, db, true)

	state := &payments.SubscriptionState{
		ID:                 "sub_test_lc",
		Status:             models.SubscriptionStatusActive,
		CustomerID:         "cus_test_1",
		PriceID:            "price_test_1",
		CurrentPeriodStart: time.Now().Add(-time.Hour).UTC(),
		CurrentPeriodEnd:   time.Now().Add(30 * 24 * time.Hour).UTC(),
	}
	svc := NewWebhookService(db, testConfig(), &mockProvider{subState: state}, access)

	// Subscription checkout links the provider subscription to the user.
	checkout := payments.Event{
		ID:   "evt_sub_checkout",
		Type: payments.EventCheckoutSessionCompleted,
		Payload: []byte(fmt.Sprintf(
			`{"id":"cs_sub_1","mode":"subscription","subscription":"sub_test_lc","client_reference_id":%q}`,
			user.ID)),
	}
	if err := svc.HandleEvent(ctx, checkout); err != nil {
		t.Fatalf("HandleEvent(checkout) error = %v", err)
	}

	if ok, _ := access.HasAccess(user.ID, content.ID); !ok {
		t.Fatal("HasAccess() = false after subscription checkout")
	}

	// A later update event without a user reference must not clobber the
	// established link.
	update := subscriptionEvent("evt_sub_update", payments.EventSubscriptionUpdated,
		"sub_test_lc", models.SubscriptionStatusActive)
	if err := svc.HandleEvent(ctx, update); err != nil {
		t.Fatalf("HandleEvent(update) error = %v", err)
	}

	var count int64
	if err := db.Model(&models.Subscription{}).Where("provider_sub_id = ?", "sub_test_lc").Count(&count).Error; err != nil {
		t.Fatalf("count subscriptions: %v", err)
	}
	if count != 1 {
		t.Fatalf("subscription rows = %d, want 1", count)
	}
	var sub models.Subscription
	if err := db.Where("provider_sub_id = ?", "sub_test_lc").First(&sub).Error; err != nil {
		t.Fatalf("load subscription: %v", err)
	}
	if sub.UserID != user.ID {
		t.Errorf("subscription user = %s, want %s", sub.UserID, user.ID)
	}

	// Cancellation ends access.
	deleted := subscriptionEvent("evt_sub_delete", payments.EventSubscriptionDeleted,
		"sub_test_lc", models.SubscriptionStatusCanceled)
	if err := svc.HandleEvent(ctx, deleted); err != nil {
		t.Fatalf("HandleEvent(deleted) error = %v", err)
	}
	if ok, _ := access.HasAccess(user.ID, content.ID); ok {
		t.Error("HasAccess() = true after subscription cancellation")
	}
}

func TestWebhookSubscriptionEventBeforeCheckout(t *testing.T) {
	db := setupTestDB(t)
	access := NewAccessService(db, nil)
	ctx := context.Background()

	user := createTestUser(t, db)
	content := createTestContent(t, db, true)

	state := &payments.SubscriptionState{
		ID:                 "sub_early",
		Status:             models.SubscriptionStatusActive,
		CustomerID:         "cus_early_1",
		PriceID:            "price_test_1",
		CurrentPeriodStart: time.Now().Add(-time.Hour).UTC(),
		CurrentPeriodEnd:   time.Now().Add(30 * 24 * time.Hour).UTC(),
	}
	svc := NewWebhookService(db, testConfig(), &mockProvider{subState: state}, access)

	// Stripe sends customer.subscription.created before the checkout
	// completion; the row lands unlinked because no user reference has
	// arrived yet.
	created := subscriptionEvent("evt_sub_early", payments.EventSubscriptionCreated,
		"sub_early", models.SubscriptionStatusActive)
	if err := svc.HandleEvent(ctx, created); err != nil {
		t.Fatalf("HandleEvent(created) error = %v", err)
	}
	if ok, _ := access.HasAccess(user.ID, content.ID); ok {
		t.Fatal("HasAccess() = true before the checkout linked a user")
	}

	// The checkout completion carries the user reference and must fill in
	// the link on the existing row.
	checkout := payments.Event{
		ID:   "evt_sub_early_checkout",
		Type: payments.EventCheckoutSessionCompleted,
		Payload: []byte(fmt.Sprintf(
			`{"id":"cs_early_1","mode":"subscription","subscription":"sub_early","client_reference_id":%q}`,
			user.ID)),
	}
	if err := svc.HandleEvent(ctx, checkout); err != nil {
		t.Fatalf("HandleEvent(checkout) error = %v", err)
	}

	var count int64
	if err := db.Model(&models.Subscription{}).Where("provider_sub_id = ?", "sub_early").Count(&count).Error; err != nil {
		t.Fatalf("count subscriptions: %v", err)
	}
	if count != 1 {
		t.Fatalf("subscription rows = %d, want 1", count)
	}
	var sub models.Subscription
	if err := db.Where("provider_sub_id = ?", "sub_early").First(&sub).Error; err != nil {
		t.Fatalf("load subscription: %v", err)
	}
	if sub.UserID != user.ID {
		t.Errorf("subscription user = %s, want %s", sub.UserID, user.ID)
	}
	if ok, _ := access.HasAccess(user.ID, content.ID); !ok {
		t.Error("HasAccess() = false after checkout linked the subscriber")
	}
}

func TestCheckoutCreateSession(t *testing.T) {
	db := setupTestDB(t)
	access := NewAccessService(db, nil)
	provider := &mockProvider{session: payments.Session{ID: "cs_new_1", URL: "https://checkout.example/cs_new_1"}}
	svc := NewCheckoutService(db, testConfig(), provider, access)

	user := createTestUser(t, db)
	content := createTestContent(t, db, true)

	t.Run("fresh purchase succeeds", func(t *testing.T) {
		req := checkoutRequest(user.ID, content.ID)
		resp, err := svc.CreateSession(&req)
		if err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}
		if !resp.Success || resp.SessionID != "cs_new_1" || resp.SessionURL == "" {
			t.Errorf("unexpected response: %+v", resp)
		}
		if provider.lastParams.AmountCents != content.PriceCents {
			t.Errorf("session amount = %d, want %d", provider.lastParams.AmountCents, content.PriceCents)
		}
	})

	t.Run("owned content is rejected before the provider", func(t *testing.T) {
		createCompletedPurchase(t, db, user.ID, content.ID)
		calls := provider.calls
		req := checkoutRequest(user.ID, content.ID)
		_, err := svc.CreateSession(&req)
		if !errors.Is(err, ErrAlreadyOwned) {
			t.Fatalf("CreateSession() error = %v, want ErrAlreadyOwned", err)
		}
		if provider.calls != calls {
			t.Error("provider was called for an already-owned purchase")
		}
	})

	t.Run("missing content", func(t *testing.T) {
		req := checkoutRequest(user.ID, uuid.New())
		_, err := svc.CreateSession(&req)
		if !errors.Is(err, ErrContentNotFound) {
			t.Fatalf("CreateSession() error = %v, want ErrContentNotFound", err)
		}
	})

	t.Run("unpurchasable content", func(t *testing.T) {
		locked := createTestContent(t, db, true)
		if err := db.Model(locked).Update("purchasable", false).Error; err != nil {
			t.Fatalf("update content: %v", err)
		}
		req := checkoutRequest(user.ID, locked.ID)
		_, err := svc.CreateSession(&req)
		if !errors.Is(err, ErrNotPurchasable) {
			t.Fatalf("CreateSession() error = %v, want ErrNotPurchasable", err)
		}
	})

	t.Run("existing subscriber cannot subscribe twice", func(t *testing.T) {
		subscriber := createTestUser(t, db)
		createSubscription(t, db, subscriber.ID, models.SubscriptionStatusActive)
		req := checkoutRequest(subscriber.ID, uuid.Nil)
		req.Type = "subscription"
		req.ContentID = ""
		req.PriceID = "price_test_1"
		_, err := svc.CreateSession(&req)
		if !errors.Is(err, ErrAlreadySubscribed) {
			t.Fatalf("CreateSession() error = %v, want ErrAlreadySubscribed", err)
		}
	})
}

func TestProgressLedgerUpsert(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProgressService(db)

	user := createTestUser(t, db)
	content := createTestContent(t, db, true)

	record, err := svc.Get(user.ID, content.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if record.QuizCompleted || record.ListenProgressSeconds != 0 {
		t.Fatalf("expected zeroed default, got %+v", record)
	}

	if _, err := svc.Apply(user.ID, content.ID, "listen_progress", []byte(`{"seconds":120,"percent":40}`)); err != nil {
		t.Fatalf("Apply(listen) error = %v", err)
	}
	record, err = svc.Apply(user.ID, content.ID, "quiz_completed", nil)
	if err != nil {
		t.Fatalf("Apply(quiz) error = %v", err)
	}

	// One row holds both milestones.
	if record.ListenProgressSeconds != 120 || record.ListenProgressPercent != 40 {
		t.Errorf("listen progress lost on second action: %+v", record)
	}
	if !record.QuizCompleted || record.QuizCompletedAt == nil {
		t.Errorf("quiz milestone not recorded: %+v", record)
	}

	var count int64
	if err := db.Model(&models.ContentProgress{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count progress rows: %v", err)
	}
	if count != 1 {
		t.Errorf("progress rows = %d, want 1", count)
	}

	if _, err := svc.Apply(user.ID, content.ID, "finished_everything", nil); !errors.Is(err, ErrUnknownProgressAction) {
		t.Errorf("Apply(unknown) error = %v, want ErrUnknownProgressAction", err)
	}
}

func checkoutRequest(userID, contentID uuid.UUID) dto.CheckoutRequest {
	return dto.CheckoutRequest{
		UserID:     userID.String(),
		ContentID:  contentID.String(),
		Type:       "content_purchase",
		SuccessURL: "https://example.com/ok",
		CancelURL:  "https://example.com/no",
	}
}
