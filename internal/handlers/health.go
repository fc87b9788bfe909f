package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/nco-search-backend/internal/services"
	"github.com/Ananth-NQI/nco-search-backend/internal/storage"
)

// HealthConfig lists what the health check reports on. Redis is nil when
// no Redis is configured.
type HealthConfig struct {
	Service string
	Version string
	Store   storage.Store
	SMS     services.SMSSender
	Redis   func(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	cfg HealthConfig
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg HealthConfig) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// Root identifies the service
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": h.cfg.Service,
		"version": h.cfg.Version,
	})
}

// Check always answers 200; dependency state is in the body
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	kind := h.cfg.Store.Kind()
	dbConnected := kind != "memory" && h.cfg.Store.Ping(ctx) == nil

	redisConnected := false
	if h.cfg.Redis != nil {
		redisConnected = h.cfg.Redis(ctx) == nil
	}

	return c.JSON(fiber.Map{
		"status":            "OK",
		"message":           h.cfg.Service + " is running",
		"version":           h.cfg.Version,
		"twilioConfigured":  h.cfg.SMS.Name() == "twilio" && h.cfg.SMS.Configured(),
		"smsProvider":       h.cfg.SMS.Name(),
		"smsConfigured":     h.cfg.SMS.Configured(),
		"databaseConnected": dbConnected,
		"redisConnected":    redisConnected,
		"storage":           kind,
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
	})
}
