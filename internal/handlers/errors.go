package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/services"
	"github.com/Ananth-NQI/nco-search-backend/internal/validators"
)

// requestTimeout bounds the datastore and provider work of one request
const requestTimeout = 5 * time.Second

type errorMapping struct {
	target  error
	status  int
	message string
}

var errorTable = []errorMapping{
	{services.ErrInvalidPhone, fiber.StatusBadRequest, "Invalid phone number. Please enter a valid 10-digit Indian mobile number."},
	{services.ErrAccountNotFound, fiber.StatusNotFound, "Account not found. Please contact your administrator to register this phone number."},
	{services.ErrUserNotFound, fiber.StatusNotFound, "User not found"},
	{services.ErrAccountInactive, fiber.StatusForbidden, "Account is inactive. Please contact your administrator."},
	{services.ErrOTPNotFound, fiber.StatusBadRequest, "No OTP found. Please request a new one."},
	{services.ErrOTPExpired, fiber.StatusBadRequest, "OTP has expired. Please request a new one."},
	{services.ErrOTPAttemptsExceeded, fiber.StatusBadRequest, "Too many failed attempts. Please request a new OTP."},
	{services.ErrUserExists, fiber.StatusConflict, "A user with this phone number already exists."},
	{services.ErrInvalidRole, fiber.StatusBadRequest, "Invalid role. Must be ENUMERATOR or ADMIN."},
	{services.ErrOccupationNotFound, fiber.StatusNotFound, "Occupation not found"},
	{services.ErrSynonymNotFound, fiber.StatusNotFound, "Synonym not found"},
	{services.ErrSavedSearchNotFound, fiber.StatusNotFound, "Saved search not found"},
}

// respondError writes the JSON error body for err. Anything not in the
// table is logged and reported as a 500 with fallback.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error, fallback string) error {
	var verr *validators.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  verr.Error(),
			"errors": verr.Fields,
		})
	}

	var invalid *services.InvalidOTPError
	if errors.As(err, &invalid) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Invalid OTP. Attempt %d/%d.", invalid.Attempt, invalid.MaxAttempts),
		})
	}

	var delivery *services.DeliveryError
	if errors.As(err, &delivery) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   delivery.Message,
		})
	}

	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(fiber.Map{"error": m.message})
		}
	}

	logger.Error(fallback, zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
}

func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}
