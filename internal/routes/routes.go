package routes

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/config"
	"github.com/Ananth-NQI/nco-search-backend/internal/handlers"
	"github.com/Ananth-NQI/nco-search-backend/internal/middleware"
	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/services"
	"github.com/Ananth-NQI/nco-search-backend/internal/storage"
	"github.com/Ananth-NQI/nco-search-backend/internal/validators"
)

// Dependencies is everything the HTTP layer needs. LimiterStorage and Redis
// are nil when Redis is not in use.
type Dependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	Store          storage.Store
	LimiterStorage fiber.Storage
	Redis          func(ctx context.Context) error

	SMS           services.SMSSender
	Sessions      *services.SessionService
	OTP           *services.OTPService
	Auth          *services.AuthService
	Users         *services.UserService
	Search        *services.SearchService
	Synonyms      *services.SynonymService
	Audit         *services.AuditService
	Analytics     *services.AnalyticsService
	SavedSearches *services.SavedSearchService
}

// NewApp builds the Fiber app with middleware and every route
func NewApp(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               deps.Config.ServiceName + " v" + deps.Config.Version,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(deps.Config, deps.Logger),
	})

	policy := middleware.NewOriginPolicy(deps.Config.FrontendOrigins, deps.Config.PreviewOriginSuffix)

	app.Use(middleware.RequestLogger(deps.Logger))
	app.Use(recover.New())
	app.Use(policy.Guard())
	app.Use(policy.CORS())

	SetupRoutes(app, deps)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})

	return app
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, deps Dependencies) {
	cfg := deps.Config
	logger := deps.Logger
	validate := validators.New()
	gate := middleware.NewAccessGate(deps.Sessions)

	health := handlers.NewHealthHandler(handlers.HealthConfig{
		Service: "NCO Search Backend Server",
		Version: cfg.Version,
		Store:   deps.Store,
		SMS:     deps.SMS,
		Redis:   deps.Redis,
	})
	authHandler := handlers.NewAuthHandler(deps.OTP, deps.Auth, validate, logger)
	userHandler := handlers.NewUserHandler(deps.Users, validate, logger)
	searchHandler := handlers.NewSearchHandler(deps.Search, validate, logger)
	synonymHandler := handlers.NewSynonymHandler(deps.Synonyms, validate, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(deps.Audit, deps.Analytics, logger)
	savedHandler := handlers.NewSavedSearchHandler(deps.SavedSearches, validate, logger)
	smsStatusHandler := handlers.NewSMSStatusHandler(deps.Audit, logger)

	// Root and health
	app.Get("/", health.Root)
	app.Get("/health", health.Check)

	// API routes
	api := app.Group("/api", middleware.APILimiter(middleware.RateLimitConfig{
		Max:     cfg.APIRateLimit,
		Window:  cfg.RateLimitWindow,
		Storage: deps.LimiterStorage,
	}))

	auth := api.Group("/auth")
	auth.Post("/request-otp", middleware.OTPLimiter(middleware.RateLimitConfig{
		Max:     cfg.OTPRateLimit,
		Window:  cfg.RateLimitWindow,
		Storage: deps.LimiterStorage,
	}), authHandler.RequestOTP)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", gate.OptionalAuth(), authHandler.Me)

	// Credential store, admin only
	users := api.Group("/users", gate.RequireAuth(), gate.RequireRole(models.RoleAdmin))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Post("/:phone/toggle-status", userHandler.ToggleStatus)
	users.Delete("/:phone", userHandler.Delete)

	// Search is open to the public demo role
	api.Post("/search", gate.OptionalAuth(), gate.RequirePermission(models.PermSearch), searchHandler.Search)
	api.Get("/occupations/:code", gate.OptionalAuth(), gate.RequirePermission(models.PermViewDetails), searchHandler.Occupation)
	api.Post("/selections", gate.RequireAuth(), gate.RequirePermission(models.PermSelect), searchHandler.Select)
	api.Post("/overrides", gate.RequireAuth(), gate.RequirePermission(models.PermOverride), searchHandler.Override)

	saved := api.Group("/saved-searches", gate.RequireAuth(), gate.RequirePermission(models.PermSaveSearch))
	saved.Get("/", savedHandler.List)
	saved.Post("/", savedHandler.Create)
	saved.Delete("/:id", savedHandler.Delete)

	synonyms := api.Group("/synonyms", gate.RequireAuth(), gate.RequirePermission(models.PermManageSynonyms))
	synonyms.Get("/", synonymHandler.List)
	synonyms.Post("/", synonymHandler.Create)
	synonyms.Delete("/:id", synonymHandler.Delete)

	audit := api.Group("/audit-logs", gate.RequireAuth(), gate.RequirePermission(models.PermViewAuditLogs))
	audit.Get("/", analyticsHandler.AuditLogs)
	audit.Get("/export", analyticsHandler.ExportAuditLogs)

	api.Get("/analytics", gate.RequireAuth(), gate.RequirePermission(models.PermViewDashboard), analyticsHandler.Dashboard)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")
	if !cfg.IsProduction() && cfg.DisableWebhookValidation {
		logger.Warn("SMS status webhook validation DISABLED")
		webhooks.Post("/sms-status", smsStatusHandler.Handle)
	} else {
		webhooks.Post("/sms-status", middleware.ValidateTwilioSignature(middleware.TwilioSignatureConfig{
			AuthToken: cfg.TwilioAuthToken,
			PublicURL: cfg.PublicURL,
			Logger:    logger,
		}), smsStatusHandler.Handle)
	}
}

// errorHandler turns any error that escaped a handler into a JSON body.
// Outside production the message of an unexpected error is passed through.
func errorHandler(cfg *config.Config, logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			logger.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
			if !cfg.IsProduction() {
				message = err.Error()
			}
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
		})
	}
}
