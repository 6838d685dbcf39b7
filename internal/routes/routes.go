package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/vetsidekick/cpd-backend/internal/config"
	"github.com/vetsidekick/cpd-backend/internal/handlers"
	"github.com/vetsidekick/cpd-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	checkoutHandler *handlers.CheckoutHandler,
	webhookHandler *handlers.WebhookHandler,
	accessHandler *handlers.AccessHandler,
	progressHandler *handlers.ProgressHandler,
	contentHandler *handlers.ContentHandler,
	configHandler *handlers.PlatformConfigHandler,
	devHandler *handlers.DevHandler,
) {
	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP. Webhooks are
	// registered before this so provider retry bursts are never limited.
	api.Post("/webhooks/stripe", webhookHandler.HandleStripe)

	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Platform config and catalog (public)
	api.Get("/config", configHandler.GetAll)
	api.Get("/content", contentHandler.List)
	api.Get("/content/:id", contentHandler.Get)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/apple", authHandler.AppleSignIn)

	// Protected auth routes outside the stricter limiter
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)

	// Checkout (no JWT: the web client sends the user id in the body)
	api.Post("/checkout", checkoutHandler.CreateSession)

	// Access decisions (protected)
	api.Get("/access/check", middleware.JWTProtected(cfg), accessHandler.Check)
	api.Get("/access/content", middleware.JWTProtected(cfg), accessHandler.ListAccessible)
	api.Post("/access/refresh", middleware.JWTProtected(cfg), accessHandler.Refresh)
	api.Get("/subscription", middleware.JWTProtected(cfg), accessHandler.SubscriptionStatus)

	// Progress ledger (reporting only, never an access source)
	api.Get("/progress", progressHandler.Get)
	api.Post("/progress", progressHandler.Update)

	// Admin panel. Guards are per-route: catalog maintenance admits
	// editors, config management is admin-only.
	jwtGuard := middleware.JWTProtected(cfg)
	adminGuard := middleware.AdminRequired(db, cfg)
	editorGuard := middleware.EditorRequired(db, cfg)

	admin := api.Group("/admin")
	admin.Put("/config/:key", jwtGuard, adminGuard, configHandler.Set)
	admin.Delete("/config/:key", jwtGuard, adminGuard, configHandler.Delete)
	admin.Post("/content", jwtGuard, editorGuard, contentHandler.Create)
	admin.Put("/content/:id", jwtGuard, editorGuard, contentHandler.Update)
	admin.Delete("/content/:id", jwtGuard, editorGuard, contentHandler.Delete)

	// Development tooling: not registered in production, and the
	// handlers 404 there independently.
	if !cfg.IsProduction() {
		dev := api.Group("/dev")
		dev.Post("/simulate-purchase", devHandler.SimulatePurchase)
		dev.Post("/fix-purchase-data", devHandler.FixPurchaseData)
	}
}
