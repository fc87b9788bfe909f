package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const defaultJWTSecret = "default-secret-change-in-production"

// Config holds application configuration
type Config struct {
	Port        string
	Environment string
	ServiceName string
	Version     string

	LogLevel  string
	LogFormat string

	FrontendOrigins     []string
	PreviewOriginSuffix string
	PublicURL           string

	JWTSecret string
	TokenTTL  time.Duration

	DBDriver         string // postgres, sqlite or memory
	DatabaseURL      string
	DBConnectTimeout time.Duration
	DBMaxOpenConns   int
	DBMaxIdleConns   int

	RedisURL string

	SMSProvider       string // twilio, gateway or console
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
	StatusCallbackURL string

	// DisableWebhookValidation skips Twilio signature checks outside production
	DisableWebhookValidation bool

	GatewayURL      string
	GatewayAPIKey   string
	GatewaySenderID string

	SMSTimeout time.Duration

	OTPTTL                   time.Duration
	OTPMaxAttempts           int
	OTPRollbackOnSendFailure bool
	OTPSweepSchedule         string
	OTPExpiredRetention      time.Duration

	APIRateLimit    int
	OTPRateLimit    int
	RateLimitWindow time.Duration

	DemoLogin   bool
	AdminPhones []string
}

// Load reads envFile (or .env when empty) and then the process environment.
// A missing file is reported but not fatal.
func Load(envFile string, logger *zap.Logger) *Config {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		logger.Info("No env file found, using system environment variables", zap.String("file", envFile))
	}

	cfg := &Config{
		Port:        getEnv("PORT", "3001"),
		Environment: getEnv("ENVIRONMENT", "development"),
		ServiceName: getEnv("SERVICE_NAME", "nco-search-backend"),
		Version:     getEnv("APP_VERSION", "1.0.0"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		FrontendOrigins:     getEnvList("FRONTEND_URL", []string{"http://localhost:5173", "http://localhost:5174"}),
		PreviewOriginSuffix: getEnv("PREVIEW_ORIGIN_SUFFIX", ".vercel.app"),
		PublicURL:           getEnv("PUBLIC_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", defaultJWTSecret),
		TokenTTL:  getEnvDuration("JWT_EXPIRY", 24*time.Hour),

		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL:      getEnv("DATABASE_URL", "host=localhost user=postgres dbname=nco_search port=5432 sslmode=disable"),
		DBConnectTimeout: getEnvDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		DBMaxOpenConns:   getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:   getEnvInt("DB_MAX_IDLE_CONNS", 5),

		RedisURL: getEnv("REDIS_URL", ""),

		SMSProvider:       strings.ToLower(getEnv("SMS_PROVIDER", "twilio")),
		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		StatusCallbackURL: getEnv("TWILIO_STATUS_CALLBACK_URL", ""),

		DisableWebhookValidation: getEnvBool("DISABLE_WEBHOOK_VALIDATION", false),

		GatewayURL:      getEnv("SMS_GATEWAY_URL", ""),
		GatewayAPIKey:   getEnv("SMS_GATEWAY_API_KEY", ""),
		GatewaySenderID: getEnv("SMS_GATEWAY_SENDER_ID", ""),

		SMSTimeout: getEnvDuration("SMS_TIMEOUT", 5*time.Second),

		OTPTTL:                   getEnvDuration("OTP_TTL", 5*time.Minute),
		OTPMaxAttempts:           getEnvInt("OTP_MAX_ATTEMPTS", 3),
		OTPRollbackOnSendFailure: getEnvBool("OTP_ROLLBACK_ON_SEND_FAILURE", false),
		OTPSweepSchedule:         getEnv("OTP_SWEEP_SCHEDULE", "@every 1m"),
		OTPExpiredRetention:      getEnvDuration("OTP_EXPIRED_RETENTION", time.Hour),

		APIRateLimit:    getEnvInt("API_RATE_LIMIT", 100),
		OTPRateLimit:    getEnvInt("OTP_RATE_LIMIT", 3),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),

		DemoLogin:   getEnvBool("DEMO_LOGIN", false),
		AdminPhones: getEnvList("ADMIN_PHONES", nil),
	}

	if cfg.JWTSecret == defaultJWTSecret {
		logger.Warn("Using default JWT_SECRET. Update it in your environment.")
	}
	if cfg.DemoLogin {
		logger.Warn("DEMO_LOGIN is enabled: demo phones can log in while running on the fallback store")
	}

	return cfg
}

// IsProduction reports whether internal error details must be hidden
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// TwilioConfigured mirrors the provider's own credential sanity check
func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" &&
		c.TwilioAuthToken != "" &&
		c.TwilioPhoneNumber != "" &&
		strings.HasPrefix(c.TwilioAccountSID, "AC") &&
		c.TwilioAccountSID != "your_account_sid_here"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// getEnvList splits a comma separated variable, dropping empty items
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
