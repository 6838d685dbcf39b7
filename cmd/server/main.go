package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/vetsidekick/cpd-backend/internal/cache"
	"github.com/vetsidekick/cpd-backend/internal/config"
	"github.com/vetsidekick/cpd-backend/internal/database"
	"github.com/vetsidekick/cpd-backend/internal/gate"
	"github.com/vetsidekick/cpd-backend/internal/handlers"
	"github.com/vetsidekick/cpd-backend/internal/logging"
	"github.com/vetsidekick/cpd-backend/internal/middleware"
	"github.com/vetsidekick/cpd-backend/internal/payments"
	"github.com/vetsidekick/cpd-backend/internal/routes"
	"github.com/vetsidekick/cpd-backend/internal/services"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.StripeSecretKey == "" {
		slog.Error("STRIPE_SECRET_KEY environment variable is required")
		os.Exit(1)
	}
	if cfg.StripeWebhookSecret == "" {
		slog.Error("STRIPE_WEBHOOK_SECRET environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log retention sweep (LOG_RETENTION_DAYS, default 30)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Redis cache for accessible-content ids. Optional: a nil cache
	// degrades to direct fact-store reads.
	var accessCache *cache.AccessCache
	if cfg.RedisAddr != "" {
		if client, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword); err != nil {
			slog.Warn("redis unavailable, caching disabled", "error", err)
		} else {
			accessCache = cache.NewAccessCache(client, 5*time.Minute)
		}
	}

	// Payment provider
	provider := payments.NewStripeClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	accessService := services.NewAccessService(database.DB, accessCache)
	checkoutService := services.NewCheckoutService(database.DB, cfg, provider, accessService)
	webhookService := services.NewWebhookService(database.DB, cfg, provider, accessService)
	progressService := services.NewProgressService(database.DB)
	contentService := services.NewContentService(database.DB)
	devToolsService := services.NewDevToolsService(database.DB, cfg, accessService)

	accessGate := gate.New(accessService.HasAccess, 30*time.Second)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(cfg)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	webhookHandler := handlers.NewWebhookHandler(provider, webhookService)
	accessHandler := handlers.NewAccessHandler(accessService, accessGate)
	progressHandler := handlers.NewProgressHandler(progressService)
	contentHandler := handlers.NewContentHandler(contentService)
	configHandler := handlers.NewPlatformConfigHandler(database.DB)
	devHandler := handlers.NewDevHandler(devToolsService, cfg)

	// Seed a development catalog on empty databases
	if !cfg.IsProduction() {
		if err := database.Seed(cfg); err != nil {
			slog.Warn("seeding failed", "error", err)
		}
	}

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB,
		authHandler, healthHandler, checkoutHandler, webhookHandler,
		accessHandler, progressHandler, contentHandler, configHandler, devHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
