package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/middleware"
	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/services"
	"github.com/Ananth-NQI/nco-search-backend/internal/validators"
)

type SynonymHandler struct {
	synonyms *services.SynonymService
	validate *validators.Validator
	logger   *zap.Logger
}

func NewSynonymHandler(synonyms *services.SynonymService, validate *validators.Validator, logger *zap.Logger) *SynonymHandler {
	return &SynonymHandler{synonyms: synonyms, validate: validate, logger: logger}
}

func (h *SynonymHandler) List(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	synonyms, err := h.synonyms.List(ctx)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to fetch synonyms")
	}
	return c.JSON(synonyms)
}

func (h *SynonymHandler) Create(c *fiber.Ctx) error {
	var req models.SynonymRequest
	if err := h.validate.Decode(c.Body(), &req); err != nil {
		return respondError(c, h.logger, err, "Failed to add synonym")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	synonym, err := h.synonyms.Add(ctx, middleware.IdentityFrom(c), req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to add synonym")
	}
	return c.Status(fiber.StatusCreated).JSON(synonym)
}

func (h *SynonymHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondError(c, h.logger, services.ErrSynonymNotFound, "")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.synonyms.Remove(ctx, middleware.IdentityFrom(c), uint(id)); err != nil {
		return respondError(c, h.logger, err, "Failed to remove synonym")
	}
	return c.JSON(fiber.Map{"success": true})
}
