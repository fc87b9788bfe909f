package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/storage"
)

func confidence(v float64) *float64 { return &v }

func seedAudit(t *testing.T, audit *AuditService) {
	t.Helper()
	ctx := context.Background()
	entries := []*models.AuditEntry{
		{Action: models.AuditSearch, Actor: "enumerator_01", Details: "Searched for: \"tailor\"", NcoCode: "75320101", Confidence: confidence(0.9)},
		{Action: models.AuditSearch, Actor: "enumerator_01", Details: "Searched for: \"coder\"", NcoCode: "25120101", Confidence: confidence(0.6)},
		{Action: models.AuditSearch, Actor: "enumerator_02", Details: "Searched for: \"xyz\""},
		{Action: models.AuditSelection, Actor: "enumerator_01", NcoCode: "75320101"},
		{Action: models.AuditSelection, Actor: "enumerator_02", NcoCode: "75320101"},
		{Action: models.AuditSelection, Actor: "enumerator_02", NcoCode: "25120101"},
		{Action: models.AuditOverride, Actor: "admin_01", NcoCode: "25120102"},
	}
	for _, e := range entries {
		audit.Record(ctx, e)
	}
}

func TestAnalyticsSummary(t *testing.T) {
	store := storage.NewMemoryStore()
	audit := NewAuditService(store, zap.NewNop())
	seedAudit(t, audit)

	summary, err := NewAnalyticsService(store).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalSearches)
	assert.InDelta(t, 0.75, summary.AverageConfidence, 1e-9)
	assert.Equal(t, int64(2), summary.LowConfidenceCases)
	assert.Equal(t, int64(3), summary.TotalSelections)
	assert.Equal(t, int64(1), summary.TotalOverrides)

	require.Len(t, summary.TopOccupations, 2)
	assert.Equal(t, models.OccupationCount{NcoCode: "75320101", Title: "Sewing Machine Operator (Garment)", Count: 2}, summary.TopOccupations[0])
	assert.Equal(t, "25120101", summary.TopOccupations[1].NcoCode)
}

func TestAnalyticsEmpty(t *testing.T) {
	summary, err := NewAnalyticsService(storage.NewMemoryStore()).Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.TotalSearches)
	assert.Zero(t, summary.AverageConfidence)
	assert.NotNil(t, summary.TopOccupations)
}

func TestAuditListAndExport(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	audit := NewAuditService(store, zap.NewNop())
	c := newClock()
	audit.now = c.Now
	seedAudit(t, audit)

	all, err := audit.List(ctx, "ALL")
	require.NoError(t, err)
	assert.Len(t, all, 7)
	assert.Equal(t, models.AuditOverride, all[0].Action)

	searches, err := audit.List(ctx, string(models.AuditSearch))
	require.NoError(t, err)
	assert.Len(t, searches, 3)

	data, err := audit.Export(ctx, string(models.AuditSelection))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Audit Logs")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, auditExportHeader, rows[0])
	assert.Equal(t, "SELECTION", rows[1][2])
	assert.Equal(t, "2025-12-22T18:30:00Z", rows[1][1])
}
