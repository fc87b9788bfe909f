package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/utils"
)

// AuthService turns a verified OTP into a session token
type AuthService struct {
	otp      *OTPService
	users    *UserService
	sessions *SessionService
	audit    *AuditService
	logger   *zap.Logger
}

func NewAuthService(otp *OTPService, users *UserService, sessions *SessionService, audit *AuditService, logger *zap.Logger) *AuthService {
	return &AuthService{
		otp:      otp,
		users:    users,
		sessions: sessions,
		audit:    audit,
		logger:   logger,
	}
}

// Login verifies code for phone and issues a token
func (s *AuthService) Login(ctx context.Context, rawPhone, code string) (*models.LoginResponse, error) {
	phone, ok := utils.NormalizePhone(rawPhone)
	if !ok {
		return nil, ErrInvalidPhone
	}

	if err := s.otp.VerifyOTP(ctx, phone, code); err != nil {
		return nil, err
	}

	// The account may have been removed or disabled while the code was live.
	user, err := s.users.FindActive(ctx, phone)
	if err != nil {
		return nil, err
	}

	s.users.RecordLogin(ctx, phone)

	token, _, err := s.sessions.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	s.logger.Info("User logged in", zap.String("phone", utils.MaskPhone(phone)), zap.String("role", string(user.Role)))
	s.audit.Log(ctx, models.AuditLogin, user.Name, fmt.Sprintf("Login by %s", utils.MaskPhone(phone)))

	return &models.LoginResponse{
		Phone: user.Phone,
		Role:  user.Role,
		Name:  user.Name,
		Token: token,
	}, nil
}
