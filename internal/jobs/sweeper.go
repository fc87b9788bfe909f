package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/storage"
)

// OTPSweeper periodically removes OTP records that expired more than
// retention ago. Verification checks expiry on read, so the sweep only
// reclaims space.
type OTPSweeper struct {
	ledger    storage.OTPLedger
	logger    *zap.Logger
	schedule  string
	retention time.Duration
	now       func() time.Time
	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewOTPSweeper creates a sweeper for a standard cron spec or descriptor
// such as "@every 1m"
func NewOTPSweeper(ledger storage.OTPLedger, schedule string, retention time.Duration, logger *zap.Logger) *OTPSweeper {
	return &OTPSweeper{
		ledger:    ledger,
		logger:    logger,
		schedule:  schedule,
		retention: retention,
		now:       time.Now,
	}
}

// Start schedules the sweep. It is a no-op if already running.
func (s *OTPSweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		s.logger.Info("OTP sweeper already running")
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}
	c.Start()

	s.cron = c
	s.isRunning = true
	s.logger.Info("OTP sweeper started", zap.String("schedule", s.schedule))
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *OTPSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("OTP sweeper stopped")
}

// RunOnce deletes every record that expired before now minus retention
func (s *OTPSweeper) RunOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	removed, err := s.ledger.DeleteExpired(ctx, s.now().Add(-s.retention))
	if err != nil {
		s.logger.Error("OTP sweep failed", zap.Error(err))
		return 0
	}
	if removed > 0 {
		s.logger.Info("Expired OTPs removed", zap.Int64("count", removed))
	}
	return removed
}
