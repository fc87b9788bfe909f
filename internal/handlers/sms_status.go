package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/services"
	"github.com/Ananth-NQI/nco-search-backend/internal/utils"
)

// SMSStatusPayload is a Twilio message status callback
type SMSStatusPayload struct {
	MessageSid    string `form:"MessageSid"`
	AccountSid    string `form:"AccountSid"`
	MessageStatus string `form:"MessageStatus"`
	To            string `form:"To"`
	From          string `form:"From"`
	ErrorCode     string `form:"ErrorCode"`
	ErrorMessage  string `form:"ErrorMessage"`
}

// SMSStatusHandler records delivery callbacks for OTP messages
type SMSStatusHandler struct {
	audit  *services.AuditService
	logger *zap.Logger
}

func NewSMSStatusHandler(audit *services.AuditService, logger *zap.Logger) *SMSStatusHandler {
	return &SMSStatusHandler{audit: audit, logger: logger}
}

func (h *SMSStatusHandler) Handle(c *fiber.Ctx) error {
	var payload SMSStatusPayload
	if err := c.BodyParser(&payload); err != nil {
		h.logger.Warn("Error parsing status callback", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}
	if payload.MessageSid == "" || payload.MessageStatus == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	to := utils.MaskPhone(strings.TrimPrefix(payload.To, "+91"))
	details := fmt.Sprintf("Message %s to %s: %s", payload.MessageSid, to, payload.MessageStatus)
	if payload.ErrorCode != "" {
		details += fmt.Sprintf(" (error %s)", payload.ErrorCode)
	}

	h.logger.Info("SMS status callback",
		zap.String("sid", payload.MessageSid),
		zap.String("status", payload.MessageStatus),
		zap.String("error_code", payload.ErrorCode),
	)

	ctx, cancel := requestContext(c)
	defer cancel()
	h.audit.Log(ctx, models.AuditSMSStatus, "twilio", details)

	// Acknowledge webhook receipt
	return c.SendStatus(fiber.StatusOK)
}
