package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalyticsHandler serves the admin audit trail and dashboard
type AnalyticsHandler struct {
	audit     *services.AuditService
	analytics *services.AnalyticsService
	logger    *zap.Logger
}

func NewAnalyticsHandler(audit *services.AuditService, analytics *services.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{audit: audit, analytics: analytics, logger: logger}
}

// AuditLogs lists entries most recent first, filtered by ?action=
func (h *AnalyticsHandler) AuditLogs(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	entries, err := h.audit.List(ctx, c.Query("action"))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to fetch audit logs")
	}
	return c.JSON(entries)
}

// ExportAuditLogs downloads the filtered audit log as a spreadsheet
func (h *AnalyticsHandler) ExportAuditLogs(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	data, err := h.audit.Export(ctx, c.Query("action"))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to export audit logs")
	}

	filename := fmt.Sprintf("audit-logs-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}

func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	summary, err := h.analytics.Summary(ctx)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to compute analytics")
	}
	return c.JSON(summary)
}
