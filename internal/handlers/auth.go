package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/middleware"
	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/services"
	"github.com/Ananth-NQI/nco-search-backend/internal/validators"
)

// AuthHandler handles OTP login requests
type AuthHandler struct {
	otp      *services.OTPService
	auth     *services.AuthService
	validate *validators.Validator
	logger   *zap.Logger
}

func NewAuthHandler(otp *services.OTPService, auth *services.AuthService, validate *validators.Validator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{otp: otp, auth: auth, validate: validate, logger: logger}
}

// RequestOTP sends a login code to a registered phone
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var req models.OTPRequest
	if err := h.validate.Decode(c.Body(), &req); err != nil {
		return respondError(c, h.logger, err, "Failed to send OTP")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	phone, err := h.otp.RequestOTP(ctx, req.Phone)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to send OTP. Please try again later.")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent successfully to " + phone,
	})
}

// VerifyOTP exchanges a valid code for a session token
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req models.OTPVerification
	if err := h.validate.Decode(c.Body(), &req); err != nil {
		return respondError(c, h.logger, err, "Verification failed. Please try again.")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.auth.Login(ctx, req.Phone, req.OTP)
	if err != nil {
		return respondError(c, h.logger, err, "Verification failed. Please try again.")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// Logout is an acknowledgement only; tokens are not tracked server side
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Me reports the caller's role and what it may do
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)
	return c.JSON(fiber.Map{
		"phone":         identity.Phone,
		"name":          identity.Name,
		"role":          identity.Role,
		"authenticated": !identity.IsPublic(),
		"permissions":   identity.Role.Permissions(),
	})
}
