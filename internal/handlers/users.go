package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/middleware"
	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/services"
	"github.com/Ananth-NQI/nco-search-backend/internal/utils"
	"github.com/Ananth-NQI/nco-search-backend/internal/validators"
)

// UserHandler manages enumerator and admin accounts
type UserHandler struct {
	users    *services.UserService
	validate *validators.Validator
	logger   *zap.Logger
}

func NewUserHandler(users *services.UserService, validate *validators.Validator, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, validate: validate, logger: logger}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := h.users.ListActive(ctx)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to fetch users")
	}
	return c.JSON(users)
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req models.UserRegistration
	if err := h.validate.Decode(c.Body(), &req); err != nil {
		return respondError(c, h.logger, err, "Failed to create user")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.users.Register(ctx, middleware.IdentityFrom(c).Actor(), req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create user")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) ToggleStatus(c *fiber.Ctx) error {
	phone, ok := utils.NormalizePhone(c.Params("phone"))
	if !ok {
		return respondError(c, h.logger, services.ErrInvalidPhone, "")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	active, err := h.users.ToggleStatus(ctx, middleware.IdentityFrom(c).Actor(), phone)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to toggle user status")
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"isActive": active,
	})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	phone, ok := utils.NormalizePhone(c.Params("phone"))
	if !ok {
		return respondError(c, h.logger, services.ErrInvalidPhone, "")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.users.Delete(ctx, middleware.IdentityFrom(c).Actor(), phone); err != nil {
		return respondError(c, h.logger, err, "Failed to delete user")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}
