package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/middleware"
	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/services"
	"github.com/Ananth-NQI/nco-search-backend/internal/validators"
)

type SavedSearchHandler struct {
	saved    *services.SavedSearchService
	validate *validators.Validator
	logger   *zap.Logger
}

func NewSavedSearchHandler(saved *services.SavedSearchService, validate *validators.Validator, logger *zap.Logger) *SavedSearchHandler {
	return &SavedSearchHandler{saved: saved, validate: validate, logger: logger}
}

func (h *SavedSearchHandler) List(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	searches, err := h.saved.List(ctx, middleware.IdentityFrom(c))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to fetch saved searches")
	}
	return c.JSON(searches)
}

func (h *SavedSearchHandler) Create(c *fiber.Ctx) error {
	var req models.SavedSearchRequest
	if err := h.validate.Decode(c.Body(), &req); err != nil {
		return respondError(c, h.logger, err, "Failed to save search")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	saved, err := h.saved.Save(ctx, middleware.IdentityFrom(c), req.Query)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to save search")
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

func (h *SavedSearchHandler) Delete(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.saved.Delete(ctx, middleware.IdentityFrom(c), c.Params("id")); err != nil {
		return respondError(c, h.logger, err, "Failed to delete saved search")
	}
	return c.JSON(fiber.Map{"success": true})
}
