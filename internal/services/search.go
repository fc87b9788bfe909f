package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/storage"
)

// SearchService runs the matcher and records what callers do with results
type SearchService struct {
	store  storage.Store
	audit  *AuditService
	logger *zap.Logger
	jitter func() float64
}

func NewSearchService(store storage.Store, audit *AuditService, logger *zap.Logger) *SearchService {
	return &SearchService{
		store:  store,
		audit:  audit,
		logger: logger,
		jitter: func() float64 { return rand.Float64()*2 - 1 },
	}
}

// Search ranks the catalog against query
func (s *SearchService) Search(ctx context.Context, identity *models.Identity, query string) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.SearchResult{}, nil
	}

	synonyms, err := s.store.ListSynonyms(ctx)
	if err != nil {
		// Keyword rules still work without the registry.
		s.logger.Warn("Synonyms unavailable for search", zap.Error(err))
		synonyms = nil
	}

	results := Match(query, synonyms, s.jitter)

	entry := &models.AuditEntry{
		Action:  models.AuditSearch,
		Actor:   identity.Actor(),
		Details: fmt.Sprintf("Searched for: %q", query),
	}
	if len(results) > 0 {
		top := results[0].Confidence
		entry.NcoCode = results[0].NcoCode
		entry.Confidence = &top
	}
	s.audit.Record(ctx, entry)

	return results, nil
}

// Details returns the full catalog entry for code
func (s *SearchService) Details(code string) (*models.Occupation, error) {
	occ, ok := LookupOccupation(code)
	if !ok {
		return nil, ErrOccupationNotFound
	}
	return &occ, nil
}

// LogSelection records an enumerator choosing a code
func (s *SearchService) LogSelection(ctx context.Context, identity *models.Identity, req models.SelectionRequest) {
	title := req.Title
	if occ, ok := LookupOccupation(req.NcoCode); ok && title == "" {
		title = occ.Title
	}
	s.audit.Record(ctx, &models.AuditEntry{
		Action:  models.AuditSelection,
		Actor:   identity.Actor(),
		Details: fmt.Sprintf("Selected occupation: %s - %s", req.NcoCode, title),
		NcoCode: req.NcoCode,
	})
}

// LogOverride records an admin replacing one code with another
func (s *SearchService) LogOverride(ctx context.Context, identity *models.Identity, req models.OverrideRequest) {
	s.audit.Record(ctx, &models.AuditEntry{
		Action:  models.AuditOverride,
		Actor:   identity.Actor(),
		Details: fmt.Sprintf("Override: Changed from %s to %s", req.FromCode, req.ToCode),
		NcoCode: req.ToCode,
	})
}
