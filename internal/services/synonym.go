package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/storage"
)

// DefaultSynonyms are inserted by --seed
var DefaultSynonyms = []models.Synonym{
	{Term: "seamstress", NcoCode: "75320101", Occupation: "Sewing Machine Operator (Garment)"},
	{Term: "stitcher", NcoCode: "75320101", Occupation: "Sewing Machine Operator (Garment)"},
	{Term: "programmer", NcoCode: "25120101", Occupation: "Software Developer"},
	{Term: "coder", NcoCode: "25120101", Occupation: "Software Developer"},
}

type SynonymService struct {
	store  storage.Store
	audit  *AuditService
	logger *zap.Logger
}

func NewSynonymService(store storage.Store, audit *AuditService, logger *zap.Logger) *SynonymService {
	return &SynonymService{store: store, audit: audit, logger: logger}
}

func (s *SynonymService) List(ctx context.Context) ([]*models.Synonym, error) {
	synonyms, err := s.store.ListSynonyms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list synonyms: %w", err)
	}
	if synonyms == nil {
		synonyms = []*models.Synonym{}
	}
	return synonyms, nil
}

// Add stores a lowercased mapping. A missing occupation title is filled in
// from the catalog when the code is known.
func (s *SynonymService) Add(ctx context.Context, identity *models.Identity, req models.SynonymRequest) (*models.Synonym, error) {
	synonym := &models.Synonym{
		Term:       strings.ToLower(strings.TrimSpace(req.Synonym)),
		NcoCode:    req.NcoCode,
		Occupation: strings.TrimSpace(req.Occupation),
	}
	if synonym.Occupation == "" {
		if occ, ok := LookupOccupation(req.NcoCode); ok {
			synonym.Occupation = occ.Title
		}
	}

	if err := s.store.CreateSynonym(ctx, synonym); err != nil {
		return nil, fmt.Errorf("create synonym: %w", err)
	}

	s.audit.Record(ctx, &models.AuditEntry{
		Action:  models.AuditSynonymAdd,
		Actor:   identity.Actor(),
		Details: fmt.Sprintf("Added synonym: %q → %s (%s)", synonym.Term, synonym.NcoCode, synonym.Occupation),
		NcoCode: synonym.NcoCode,
	})
	return synonym, nil
}

func (s *SynonymService) Remove(ctx context.Context, identity *models.Identity, id uint) error {
	removed, err := s.store.DeleteSynonym(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrSynonymNotFound
		}
		return fmt.Errorf("delete synonym: %w", err)
	}

	s.audit.Record(ctx, &models.AuditEntry{
		Action:  models.AuditSynonymRemove,
		Actor:   identity.Actor(),
		Details: fmt.Sprintf("Removed synonym: %q → %s", removed.Term, removed.NcoCode),
		NcoCode: removed.NcoCode,
	})
	return nil
}

// Seed inserts DefaultSynonyms when the registry is empty
func (s *SynonymService) Seed(ctx context.Context) (int, error) {
	existing, err := s.store.ListSynonyms(ctx)
	if err != nil {
		return 0, fmt.Errorf("list synonyms: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, def := range DefaultSynonyms {
		syn := def
		if err := s.store.CreateSynonym(ctx, &syn); err != nil {
			return i, fmt.Errorf("seed synonym %s: %w", def.Term, err)
		}
	}
	return len(DefaultSynonyms), nil
}
