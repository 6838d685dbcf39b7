package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vetsidekick/cpd-backend/internal/config"
	"github.com/vetsidekick/cpd-backend/internal/gate"
	"github.com/vetsidekick/cpd-backend/internal/payments"
	"github.com/vetsidekick/cpd-backend/internal/services"
)

func newCheckoutApp() *fiber.App {
	app := fiber.New()
	handler := NewCheckoutHandler(services.NewCheckoutService(nil, nil, nil, nil))
	app.Post("/api/checkout", handler.CreateSession)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode body %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

func TestCheckoutValidationResponses(t *testing.T) {
	app := newCheckoutApp()

	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{
			name:      "missing user id wins over missing urls",
			body:      `{"contentId": "8d9f3a60-0000-4000-8000-000000000002"}`,
			wantError: "User ID is required",
		},
		{
			name:      "untyped request is a content purchase",
			body:      `{"userId": "8d9f3a60-0000-4000-8000-000000000001", "successUrl": "https://x/ok", "cancelUrl": "https://x/no"}`,
			wantError: "Content ID is required for content purchase",
		},
		{
			name:      "subscription needs a price id",
			body:      `{"userId": "8d9f3a60-0000-4000-8000-000000000001", "type": "subscription", "successUrl": "https://x/ok", "cancelUrl": "https://x/no"}`,
			wantError: "Price ID is required for subscription",
		},
		{
			name:      "missing urls",
			body:      `{"userId": "8d9f3a60-0000-4000-8000-000000000001", "contentId": "8d9f3a60-0000-4000-8000-000000000002"}`,
			wantError: "Success and cancel URLs are required",
		},
		{
			name:      "unknown type",
			body:      `{"userId": "8d9f3a60-0000-4000-8000-000000000001", "type": "gift_card", "successUrl": "https://x/ok", "cancelUrl": "https://x/no"}`,
			wantError: "Invalid checkout type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postJSON(t, app, "/api/checkout", tt.body)
			if status != fiber.StatusBadRequest {
				t.Fatalf("status = %d, want 400", status)
			}
			if got := body["error"]; got != tt.wantError {
				t.Errorf("error = %q, want %q", got, tt.wantError)
			}
		})
	}
}

func TestCheckoutRejectsNonPost(t *testing.T) {
	app := newCheckoutApp()

	req := httptest.NewRequest("GET", "/api/checkout", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	provider := payments.NewStripeClient("sk_test_x", "whsec_test_secret")
	handler := NewWebhookHandler(provider, nil)

	app := fiber.New()
	app.Post("/api/webhooks/stripe", handler.HandleStripe)

	payload := `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{}}}`
	for _, header := range []string{"", "t=123,v1=deadbeef"} {
		req := httptest.NewRequest("POST", "/api/webhooks/stripe", bytes.NewReader([]byte(payload)))
		req.Header.Set("Content-Type", "application/json")
		if header != "" {
			req.Header.Set("Stripe-Signature", header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("signature %q: status = %d, want 400", header, resp.StatusCode)
		}
		if !strings.Contains(string(raw), "Invalid webhook signature") {
			t.Errorf("signature %q: body = %s", header, raw)
		}
	}
}

func TestDevEndpointsHiddenInProduction(t *testing.T) {
	handler := NewDevHandler(nil, &config.Config{AppEnv: "production"})

	app := fiber.New()
	app.Post("/api/dev/simulate-purchase", handler.SimulatePurchase)
	app.Post("/api/dev/fix-purchase-data", handler.FixPurchaseData)

	for _, path := range []string{"/api/dev/simulate-purchase", "/api/dev/fix-purchase-data"} {
		req := httptest.NewRequest("POST", path, strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("%s: status = %d, want 404 in production", path, resp.StatusCode)
		}
	}
}

func TestDevSimulatePurchaseValidatesInput(t *testing.T) {
	handler := NewDevHandler(nil, &config.Config{AppEnv: "development"})

	app := fiber.New()
	app.Post("/api/dev/simulate-purchase", handler.SimulatePurchase)

	status, body := postJSON(t, app, "/api/dev/simulate-purchase",
		`{"userId": "nope", "contentId": "8d9f3a60-0000-4000-8000-000000000002"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if body["error"] != "Invalid user ID" {
		t.Errorf("error = %q, want %q", body["error"], "Invalid user ID")
	}
}

func TestAccessCheckSurfacesEvaluatorFailure(t *testing.T) {
	userID := uuid.New()
	contentID := uuid.New()

	evaluator := func(uuid.UUID, uuid.UUID) (bool, error) {
		return false, errors.New("facts unavailable")
	}
	handler := NewAccessHandler(nil, gate.New(evaluator, time.Minute))

	app := fiber.New()
	app.Get("/api/access/check", func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{
			"sub":  userID.String(),
			"role": "user",
		}})
		return handler.Check(c)
	})

	req := httptest.NewRequest("GET", "/api/access/check?contentId="+contentID.String(), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	// An evaluator failure is indeterminate, not a denial: the client
	// must be able to tell the two apart.
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	if body["error"] != "Could not determine access" {
		t.Errorf("error = %q, want %q", body["error"], "Could not determine access")
	}
	if _, present := body["hasAccess"]; present {
		t.Error("failure response carries hasAccess, want none")
	}
}
