package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/storage"
)

type sentCode struct {
	phone string
	code  string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (f *fakeSender) Name() string     { return "fake" }
func (f *fakeSender) Configured() bool { return true }

func (f *fakeSender) SendOTP(ctx context.Context, phone, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentCode{phone: phone, code: code})
	return nil
}

func (f *fakeSender) last(t *testing.T) sentCode {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent, "no code was sent")
	return f.sent[len(f.sent)-1]
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 12, 22, 18, 30, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store  *storage.MemoryStore
	ledger *storage.MemoryLedger
	sender *fakeSender
	clock  *clock
	audit  *AuditService
	users  *UserService
	otp    *OTPService
	auth   *AuthService
	tokens *SessionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	f := &fixture{
		store:  storage.NewMemoryStore(),
		ledger: storage.NewMemoryLedger(),
		sender: &fakeSender{},
		clock:  newClock(),
	}
	f.audit = NewAuditService(f.store, logger)
	f.audit.now = f.clock.Now
	f.users = NewUserService(f.store, f.audit, logger)
	f.users.now = f.clock.Now
	f.otp = NewOTPService(f.users, f.ledger, f.sender, OTPConfig{TTL: 5 * time.Minute, MaxAttempts: 3}, logger)
	f.otp.now = f.clock.Now
	f.tokens = NewSessionService("test-secret", 24*time.Hour)
	f.tokens.now = f.clock.Now
	f.auth = NewAuthService(f.otp, f.users, f.tokens, f.audit, logger)
	return f
}

func (f *fixture) hasOTP(t *testing.T, phone string) bool {
	t.Helper()
	_, err := f.ledger.Get(context.Background(), phone)
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	require.NoError(t, err)
	return true
}

func (f *fixture) addUser(t *testing.T, phone, name string, role models.Role, active bool) {
	t.Helper()
	require.NoError(t, f.store.CreateUser(context.Background(), &models.User{
		Phone:    phone,
		Name:     name,
		Role:     role,
		IsActive: active,
	}))
}
