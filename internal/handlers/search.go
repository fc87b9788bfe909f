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

// SearchHandler serves occupation search and the selection workflow
type SearchHandler struct {
	search   *services.SearchService
	validate *validators.Validator
	logger   *zap.Logger
}

func NewSearchHandler(search *services.SearchService, validate *validators.Validator, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{search: search, validate: validate, logger: logger}
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	var req models.SearchRequest
	if err := h.validate.Decode(c.Body(), &req); err != nil {
		return respondError(c, h.logger, err, "Search failed")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	results, err := h.search.Search(ctx, middleware.IdentityFrom(c), req.Query)
	if err != nil {
		return respondError(c, h.logger, err, "Search failed")
	}
	return c.JSON(fiber.Map{
		"query":   req.Query,
		"results": results,
		"count":   len(results),
	})
}

func (h *SearchHandler) Occupation(c *fiber.Ctx) error {
	code := c.Params("code")
	if !utils.IsValidNCOCode(code) {
		return respondError(c, h.logger, services.ErrOccupationNotFound, "")
	}
	occ, err := h.search.Details(code)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to load occupation")
	}
	return c.JSON(occ)
}

func (h *SearchHandler) Select(c *fiber.Ctx) error {
	var req models.SelectionRequest
	if err := h.validate.Decode(c.Body(), &req); err != nil {
		return respondError(c, h.logger, err, "Failed to record selection")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	h.search.LogSelection(ctx, middleware.IdentityFrom(c), req)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

func (h *SearchHandler) Override(c *fiber.Ctx) error {
	var req models.OverrideRequest
	if err := h.validate.Decode(c.Body(), &req); err != nil {
		return respondError(c, h.logger, err, "Failed to record override")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	h.search.LogOverride(ctx, middleware.IdentityFrom(c), req)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}
