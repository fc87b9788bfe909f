package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/storage"
)

type SavedSearchService struct {
	store storage.Store
	now   func() time.Time
}

func NewSavedSearchService(store storage.Store) *SavedSearchService {
	return &SavedSearchService{store: store, now: time.Now}
}

func (s *SavedSearchService) Save(ctx context.Context, identity *models.Identity, query string) (*models.SavedSearch, error) {
	saved := &models.SavedSearch{
		ID:        uuid.NewString(),
		Phone:     identity.Phone,
		Query:     strings.TrimSpace(query),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateSavedSearch(ctx, saved); err != nil {
		return nil, fmt.Errorf("save search: %w", err)
	}
	return saved, nil
}

func (s *SavedSearchService) List(ctx context.Context, identity *models.Identity) ([]*models.SavedSearch, error) {
	searches, err := s.store.ListSavedSearches(ctx, identity.Phone)
	if err != nil {
		return nil, fmt.Errorf("list saved searches: %w", err)
	}
	if searches == nil {
		searches = []*models.SavedSearch{}
	}
	return searches, nil
}

// Delete removes one of the caller's own saved searches
func (s *SavedSearchService) Delete(ctx context.Context, identity *models.Identity, id string) error {
	if err := s.store.DeleteSavedSearch(ctx, identity.Phone, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrSavedSearchNotFound
		}
		return fmt.Errorf("delete saved search: %w", err)
	}
	return nil
}
