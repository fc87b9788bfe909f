package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/storage"
)

var auditExportHeader = []string{"ID", "Timestamp", "Action", "User", "Details", "NCO Code", "Confidence"}

// AuditService appends and reads the audit log
type AuditService struct {
	store  storage.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewAuditService(store storage.Store, logger *zap.Logger) *AuditService {
	return &AuditService{store: store, logger: logger, now: time.Now}
}

// Record appends an entry. Audit is best effort: a failed write is logged and
// never fails the operation being audited.
func (s *AuditService) Record(ctx context.Context, entry *models.AuditEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now().UTC()
	}
	if entry.Actor == "" {
		entry.Actor = "Public User"
	}
	if err := s.store.AppendAudit(ctx, entry); err != nil {
		s.logger.Error("Failed to write audit entry",
			zap.String("action", string(entry.Action)),
			zap.Error(err),
		)
	}
}

// Log is shorthand for an entry without structured fields
func (s *AuditService) Log(ctx context.Context, action models.AuditAction, actor, details string) {
	s.Record(ctx, &models.AuditEntry{Action: action, Actor: actor, Details: details})
}

// List returns entries most recent first. An empty or "ALL" filter returns all.
func (s *AuditService) List(ctx context.Context, filter string) ([]*models.AuditEntry, error) {
	action := models.AuditAction(filter)
	if filter == "ALL" {
		action = ""
	}
	entries, err := s.store.ListAudit(ctx, action)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return entries, nil
}

// Export renders the filtered audit log as an XLSX workbook
func (s *AuditService) Export(ctx context.Context, filter string) ([]byte, error) {
	entries, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Audit Logs"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, title := range auditExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(auditExportHeader), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for i, e := range entries {
		row := i + 2
		values := []interface{}{
			e.ID,
			e.Timestamp.UTC().Format(time.RFC3339),
			string(e.Action),
			e.Actor,
			e.Details,
			e.NcoCode,
			"",
		}
		if e.Confidence != nil {
			values[6] = *e.Confidence
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
