package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, "PORT", "JWT_EXPIRY", "OTP_TTL", "OTP_MAX_ATTEMPTS", "DB_CONNECT_TIMEOUT",
		"API_RATE_LIMIT", "OTP_RATE_LIMIT", "RATE_LIMIT_WINDOW", "PREVIEW_ORIGIN_SUFFIX",
		"DEMO_LOGIN", "OTP_ROLLBACK_ON_SEND_FAILURE", "OTP_EXPIRED_RETENTION", "ADMIN_PHONES")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"), zap.NewNop())

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 3, cfg.OTPMaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.DBConnectTimeout)
	assert.Equal(t, 100, cfg.APIRateLimit)
	assert.Equal(t, 3, cfg.OTPRateLimit)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, ".vercel.app", cfg.PreviewOriginSuffix)
	assert.False(t, cfg.DemoLogin)
	assert.False(t, cfg.OTPRollbackOnSendFailure)
	assert.Equal(t, time.Hour, cfg.OTPExpiredRetention)
	assert.Empty(t, cfg.AdminPhones)
}

func TestLoad_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	content := "NCO_TEST_PORT_UNUSED=1\n" +
		"OTP_TTL=2m\n" +
		"DEMO_LOGIN=true\n" +
		"FRONTEND_URL=https://nco.example.org, https://admin.example.org\n" +
		"ADMIN_PHONES=8925341040,\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	// godotenv never overrides variables that are already set
	clearEnv(t, "OTP_TTL", "DEMO_LOGIN", "FRONTEND_URL", "ADMIN_PHONES", "NCO_TEST_PORT_UNUSED")

	cfg := Load(envFile, zap.NewNop())

	assert.Equal(t, 2*time.Minute, cfg.OTPTTL)
	assert.True(t, cfg.DemoLogin)
	assert.Equal(t, []string{"https://nco.example.org", "https://admin.example.org"}, cfg.FrontendOrigins)
	assert.Equal(t, []string{"8925341040"}, cfg.AdminPhones)
}

func TestTwilioConfigured(t *testing.T) {
	cfg := &Config{TwilioAccountSID: "AC123", TwilioAuthToken: "tok", TwilioPhoneNumber: "+15005550006"}
	assert.True(t, cfg.TwilioConfigured())

	cfg.TwilioAccountSID = "your_account_sid_here"
	assert.False(t, cfg.TwilioConfigured())

	cfg.TwilioAccountSID = "XX123"
	assert.False(t, cfg.TwilioConfigured())
}

func TestGetEnvHelpers_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("NCO_TEST_INT", "abc")
	t.Setenv("NCO_TEST_BOOL", "maybe")
	t.Setenv("NCO_TEST_DUR", "soon")

	assert.Equal(t, 7, getEnvInt("NCO_TEST_INT", 7))
	assert.True(t, getEnvBool("NCO_TEST_BOOL", true))
	assert.Equal(t, time.Second, getEnvDuration("NCO_TEST_DUR", time.Second))
}
