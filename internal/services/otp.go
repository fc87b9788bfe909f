package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/storage"
	"github.com/Ananth-NQI/nco-search-backend/internal/utils"
)

// OTPConfig tunes issuance and verification
type OTPConfig struct {
	TTL                   time.Duration
	MaxAttempts           int
	RollbackOnSendFailure bool
}

// OTPService issues and verifies one-time login codes
type OTPService struct {
	users       *UserService
	ledger      storage.OTPLedger
	sender      SMSSender
	logger      *zap.Logger
	ttl         time.Duration
	maxAttempts int
	rollback    bool
	now         func() time.Time
	generate    func() (string, error)
}

func NewOTPService(users *UserService, ledger storage.OTPLedger, sender SMSSender, cfg OTPConfig, logger *zap.Logger) *OTPService {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &OTPService{
		users:       users,
		ledger:      ledger,
		sender:      sender,
		logger:      logger,
		ttl:         cfg.TTL,
		maxAttempts: cfg.MaxAttempts,
		rollback:    cfg.RollbackOnSendFailure,
		now:         time.Now,
		generate:    utils.GenerateSecureOTP,
	}
}

// RequestOTP validates the phone, checks the account, stores a fresh code
// and sends it. It returns the normalized phone.
func (s *OTPService) RequestOTP(ctx context.Context, rawPhone string) (string, error) {
	phone, ok := utils.NormalizePhone(rawPhone)
	if !ok {
		return "", ErrInvalidPhone
	}

	if _, err := s.users.FindActive(ctx, phone); err != nil {
		return phone, err
	}

	code, err := s.generate()
	if err != nil {
		return phone, fmt.Errorf("generate otp: %w", err)
	}

	now := s.now()
	record := &models.OTP{
		Phone:     phone,
		Code:      code,
		ExpiresAt: now.Add(s.ttl),
		Attempts:  0,
		CreatedAt: now,
	}
	if err := s.ledger.Put(ctx, record); err != nil {
		return phone, fmt.Errorf("store otp: %w", err)
	}

	if err := s.sender.SendOTP(ctx, phone, code); err != nil {
		s.logger.Error("OTP delivery failed",
			zap.String("provider", s.sender.Name()),
			zap.String("phone", utils.MaskPhone(phone)),
			zap.Error(err),
		)
		if s.rollback {
			if derr := s.ledger.Delete(ctx, phone); derr != nil && !errors.Is(derr, storage.ErrNotFound) {
				s.logger.Error("Failed to roll back OTP", zap.Error(derr))
			}
		}
		return phone, err
	}

	s.logger.Info("OTP sent",
		zap.String("provider", s.sender.Name()),
		zap.String("phone", utils.MaskPhone(phone)),
	)
	return phone, nil
}

// VerifyOTP consumes the code for phone. A record is deleted on success,
// on expiry and once the attempt budget is spent.
func (s *OTPService) VerifyOTP(ctx context.Context, phone, code string) error {
	record, err := s.ledger.Get(ctx, phone)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrOTPNotFound
	}
	if err != nil {
		return fmt.Errorf("load otp: %w", err)
	}

	if record.Expired(s.now()) {
		s.discard(ctx, phone)
		return ErrOTPExpired
	}
	if record.Attempts >= s.maxAttempts {
		s.discard(ctx, phone)
		return ErrOTPAttemptsExceeded
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		attempts, err := s.ledger.IncrementAttempts(ctx, phone)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrOTPNotFound
		}
		if err != nil {
			return fmt.Errorf("record attempt: %w", err)
		}
		if attempts >= s.maxAttempts {
			s.discard(ctx, phone)
			return ErrOTPAttemptsExceeded
		}
		return &InvalidOTPError{Attempt: attempts, MaxAttempts: s.maxAttempts}
	}

	s.discard(ctx, phone)
	return nil
}

func (s *OTPService) discard(ctx context.Context, phone string) {
	if err := s.ledger.Delete(ctx, phone); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Error("Failed to delete OTP", zap.String("phone", utils.MaskPhone(phone)), zap.Error(err))
	}
}
