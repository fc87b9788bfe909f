package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ananth-NQI/nco-search-backend/database"
	"github.com/Ananth-NQI/nco-search-backend/internal/config"
	"github.com/Ananth-NQI/nco-search-backend/internal/jobs"
	"github.com/Ananth-NQI/nco-search-backend/internal/logger"
	"github.com/Ananth-NQI/nco-search-backend/internal/routes"
	"github.com/Ananth-NQI/nco-search-backend/internal/services"
	"github.com/Ananth-NQI/nco-search-backend/internal/storage"
)

func main() {
	envFile := pflag.String("env-file", "", "env file to load (default .env)")
	seed := pflag.Bool("seed", false, "insert the test enumerators and default synonyms, then exit")
	pflag.Parse()

	boot := logger.NewBootstrap()
	cfg := config.Load(*envFile, boot)

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	if err != nil {
		boot.Fatal("Failed to build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	// Initialize storage
	store, db := openStore(cfg, log)
	degraded := db == nil

	redisClient := openRedis(cfg, log)

	var ledger storage.OTPLedger
	switch {
	case redisClient != nil:
		ledger = storage.NewRedisLedger(redisClient, cfg.OTPExpiredRetention)
		log.Info("OTP ledger: redis")
	case db != nil:
		ledger = storage.NewDatabaseLedger(db)
		log.Info("OTP ledger: database")
	default:
		ledger = storage.NewMemoryLedger()
		log.Warn("OTP ledger: in-memory (not durable, single instance only)")
	}

	sender := newSMSSender(cfg, log)

	audit := services.NewAuditService(store, log)
	users := services.NewUserService(store, audit, log)
	if cfg.DemoLogin && degraded {
		users.EnableDemoAccounts()
	}
	synonyms := services.NewSynonymService(store, audit, log)

	if *seed {
		runSeed(users, synonyms, cfg.AdminPhones, log)
		return
	}
	ensureAdmins(users, cfg.AdminPhones, log)

	sessions := services.NewSessionService(cfg.JWTSecret, cfg.TokenTTL)
	otp := services.NewOTPService(users, ledger, sender, services.OTPConfig{
		TTL:                   cfg.OTPTTL,
		MaxAttempts:           cfg.OTPMaxAttempts,
		RollbackOnSendFailure: cfg.OTPRollbackOnSendFailure,
	}, log)

	deps := routes.Dependencies{
		Config:        cfg,
		Logger:        log,
		Store:         store,
		SMS:           sender,
		Sessions:      sessions,
		OTP:           otp,
		Auth:          services.NewAuthService(otp, users, sessions, audit, log),
		Users:         users,
		Search:        services.NewSearchService(store, audit, log),
		Synonyms:      synonyms,
		Audit:         audit,
		Analytics:     services.NewAnalyticsService(store),
		SavedSearches: services.NewSavedSearchService(store),
	}
	if redisClient != nil {
		deps.LimiterStorage = storage.NewLimiterStorage(redisClient, "nco:limiter:")
		deps.Redis = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	// Redis expires OTP keys itself
	var sweeper *jobs.OTPSweeper
	if redisClient == nil && cfg.OTPSweepSchedule != "" {
		sweeper = jobs.NewOTPSweeper(ledger, cfg.OTPSweepSchedule, cfg.OTPExpiredRetention, log)
		if err := sweeper.Start(); err != nil {
			log.Fatal("Failed to start OTP sweeper", zap.Error(err))
		}
	}

	app := routes.NewApp(deps)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("NCO Search Backend starting",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("storage", store.Kind()),
			zap.String("sms_provider", sender.Name()),
			zap.Bool("sms_configured", sender.Configured()),
			zap.Strings("frontend_origins", cfg.FrontendOrigins),
		)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("Server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Gracefully shutting down...")
	shutdown(app, sweeper, db, redisClient, log)
}

// openStore connects to the configured database. When it cannot be reached
// the service runs degraded on the in-memory store and db is nil.
func openStore(cfg *config.Config, log *zap.Logger) (storage.Store, *gorm.DB) {
	if cfg.DBDriver == "memory" {
		log.Warn("Using in-memory storage (not for production!)")
		return storage.NewMemoryStore(), nil
	}

	db, err := database.Connect(database.Config{
		Driver:         cfg.DBDriver,
		DSN:            cfg.DatabaseURL,
		ConnectTimeout: cfg.DBConnectTimeout,
		MaxOpenConns:   cfg.DBMaxOpenConns,
		MaxIdleConns:   cfg.DBMaxIdleConns,
	}, log)
	if err != nil {
		log.Error("Database unavailable, falling back to in-memory storage", zap.Error(err))
		return storage.NewMemoryStore(), nil
	}

	log.Info("Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Using database storage", zap.String("driver", cfg.DBDriver))
	return storage.NewDatabaseStore(db), db
}

// openRedis returns nil when Redis is not configured or not answering
func openRedis(cfg *config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	client, err := storage.NewRedisClient(cfg.RedisURL, cfg.DBConnectTimeout)
	if err != nil {
		log.Error("Redis disabled", zap.Error(err))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error("Redis unreachable, continuing without it", zap.Error(err))
		_ = client.Close()
		return nil
	}
	log.Info("Connected to Redis")
	return client
}

func newSMSSender(cfg *config.Config, log *zap.Logger) services.SMSSender {
	switch cfg.SMSProvider {
	case "gateway":
		return services.NewGatewaySender(services.GatewayConfig{
			URL:      cfg.GatewayURL,
			APIKey:   cfg.GatewayAPIKey,
			SenderID: cfg.GatewaySenderID,
			Timeout:  cfg.SMSTimeout,
		}, log)
	case "console":
		if cfg.IsProduction() {
			log.Fatal("SMS_PROVIDER=console is not allowed in production")
		}
		log.Warn("OTP codes will be written to the log, not sent")
		return services.NewConsoleSender(log)
	default:
		return services.NewTwilioService(services.TwilioConfig{
			AccountSID:        cfg.TwilioAccountSID,
			AuthToken:         cfg.TwilioAuthToken,
			From:              cfg.TwilioPhoneNumber,
			StatusCallbackURL: cfg.StatusCallbackURL,
			Timeout:           cfg.SMSTimeout,
		}, log)
	}
}

func runSeed(users *services.UserService, synonyms *services.SynonymService, adminPhones []string, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := users.Seed(ctx)
	if err != nil {
		log.Fatal("Failed to seed users", zap.Error(err))
	}
	admins, err := users.EnsureAdmins(ctx, adminPhones)
	if err != nil {
		log.Fatal("Failed to seed admins", zap.Error(err))
	}
	created += admins
	added, err := synonyms.Seed(ctx)
	if err != nil {
		log.Fatal("Failed to seed synonyms", zap.Error(err))
	}
	log.Info("Seeding complete", zap.Int("users_created", created), zap.Int("synonyms_added", added))
}

// ensureAdmins creates the ADMIN_PHONES accounts
func ensureAdmins(users *services.UserService, phones []string, log *zap.Logger) {
	if len(phones) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := users.EnsureAdmins(ctx, phones)
	if err != nil {
		log.Fatal("Failed to create admin accounts", zap.Error(err))
	}
	log.Info("Admin accounts checked", zap.Int("created", created), zap.Int("configured", len(phones)))
}

func shutdown(app *fiber.App, sweeper *jobs.OTPSweeper, db *gorm.DB, redisClient *redis.Client, log *zap.Logger) {
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if sweeper != nil {
		sweeper.Stop()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		if err := database.Close(db); err != nil {
			log.Error("Database close error", zap.Error(err))
		}
	}
	log.Info("Shutdown complete")
}
