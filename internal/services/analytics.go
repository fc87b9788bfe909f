package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/storage"
)

const (
	lowConfidenceThreshold = 0.7
	topOccupationLimit     = 5
)

// AnalyticsService summarises the audit log for the admin dashboard
type AnalyticsService struct {
	store storage.Store
}

func NewAnalyticsService(store storage.Store) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// Summary computes dashboard figures. Searches with no result count as low
// confidence and are left out of the average.
func (s *AnalyticsService) Summary(ctx context.Context) (*models.Analytics, error) {
	entries, err := s.store.ListAudit(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load audit log: %w", err)
	}

	out := &models.Analytics{TopOccupations: []models.OccupationCount{}}
	var confidenceSum float64
	var scored int64
	selections := make(map[string]int64)

	for _, e := range entries {
		switch e.Action {
		case models.AuditSearch:
			out.TotalSearches++
			if e.Confidence == nil {
				out.LowConfidenceCases++
				continue
			}
			confidenceSum += *e.Confidence
			scored++
			if *e.Confidence < lowConfidenceThreshold {
				out.LowConfidenceCases++
			}
		case models.AuditSelection:
			out.TotalSelections++
			if e.NcoCode != "" {
				selections[e.NcoCode]++
			}
		case models.AuditOverride:
			out.TotalOverrides++
		}
	}

	if scored > 0 {
		out.AverageConfidence = confidenceSum / float64(scored)
	}

	for code, count := range selections {
		title := ""
		if occ, ok := LookupOccupation(code); ok {
			title = occ.Title
		}
		out.TopOccupations = append(out.TopOccupations, models.OccupationCount{NcoCode: code, Title: title, Count: count})
	}
	sort.Slice(out.TopOccupations, func(i, j int) bool {
		a, b := out.TopOccupations[i], out.TopOccupations[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.NcoCode < b.NcoCode
	})
	if len(out.TopOccupations) > topOccupationLimit {
		out.TopOccupations = out.TopOccupations[:topOccupationLimit]
	}
	return out, nil
}
