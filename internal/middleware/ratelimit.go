package middleware

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/Ananth-NQI/nco-search-backend/internal/utils"
)

// RateLimitConfig sizes a fixed-window limiter. Storage nil means in-process.
type RateLimitConfig struct {
	Max     int
	Window  time.Duration
	Storage fiber.Storage
}

// APILimiter throttles every /api request per client IP
func APILimiter(cfg RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Window,
		Storage:    cfg.Storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "api:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests from this IP, please try again later.",
			})
		},
	})
}

// OTPLimiter throttles code requests per phone number, falling back to the
// client IP when the body carries no usable phone
func OTPLimiter(cfg RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          cfg.Max,
		Expiration:   cfg.Window,
		Storage:      cfg.Storage,
		KeyGenerator: otpLimitKey,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many OTP requests. Please try again after 15 minutes.",
			})
		},
	})
}

func otpLimitKey(c *fiber.Ctx) string {
	var body struct {
		Phone string `json:"phone"`
	}
	if err := json.Unmarshal(c.Body(), &body); err == nil {
		if phone, ok := utils.NormalizePhone(body.Phone); ok {
			return "otp:phone:" + phone
		}
	}
	return "otp:ip:" + c.IP()
}
