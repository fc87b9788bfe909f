package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/storage"
)

func fixed(v float64) func() float64 {
	return func() float64 { return v }
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		code  string
		base  float64
	}{
		{"sewing", "Sewing machine operator in garment factory", "75320101", 0.92},
		{"software", "software developer", "25120101", 0.95},
		{"cook", "Head CHEF at a hotel", "51210101", 0.88},
		{"teacher", "college lecturer", "23110101", 0.85},
		{"driver", "taxi driving", "83210101", 0.87},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := Match(tt.query, nil, fixed(0))
			require.Len(t, results, 1)
			assert.Equal(t, tt.code, results[0].NcoCode)
			assert.InDelta(t, tt.base, results[0].Confidence, 1e-9)
			assert.NotEmpty(t, results[0].Reason)
			assert.NotEmpty(t, results[0].Tasks)
		})
	}
}

func TestMatchFirstRuleWins(t *testing.T) {
	results := Match("tailor who also drives as a driver", nil, fixed(0))
	require.Len(t, results, 1)
	assert.Equal(t, "75320101", results[0].NcoCode)
}

func TestMatchNoResult(t *testing.T) {
	assert.Empty(t, Match("gibberish xyz", nil, fixed(0)))
	assert.Empty(t, Match("", nil, fixed(0)))
}

func TestMatchJitterBounds(t *testing.T) {
	for _, j := range []float64{-1, -0.5, 0, 0.5, 0.9999} {
		results := Match("software developer", nil, fixed(j))
		require.Len(t, results, 1)
		c := results[0].Confidence
		assert.GreaterOrEqual(t, c, 0.925)
		assert.LessOrEqual(t, c, 0.975)
	}
	assert.Equal(t, 0.925, score(0.95, fixed(-1)))
	assert.Equal(t, 0.845, score(0.87, fixed(-1)))
	assert.Equal(t, maxConfidence, score(1.2, fixed(0)))
	assert.Equal(t, minConfidence, score(0.1, fixed(0)))
}

func TestMatchSynonyms(t *testing.T) {
	synonyms := []*models.Synonym{
		{Term: "seamstress", NcoCode: "75320101"},
		{Term: "coder", NcoCode: "25120101"},
		{Term: "cab", NcoCode: "83210102"},
	}

	results := Match("seamstress and part time coder", synonyms, fixed(0))
	require.Len(t, results, 2)
	for _, r := range results {
		assert.InDelta(t, synonymConfidence, r.Confidence, 1e-9)
	}

	// a synonym never duplicates a rule match
	results = Match("software coder", synonyms, fixed(0))
	require.Len(t, results, 1)
	assert.Equal(t, "25120101", results[0].NcoCode)
	assert.InDelta(t, 0.95, results[0].Confidence, 1e-9)

	// codes outside the catalog are skipped
	assert.Empty(t, Match("cab", synonyms, fixed(0)))
}

func TestMatchSortedDescending(t *testing.T) {
	synonyms := []*models.Synonym{{Term: "seamstress", NcoCode: "75320101"}}
	results := Match("seamstress who is a professor", synonyms, fixed(0))
	require.Len(t, results, 2)
	assert.Equal(t, "23110101", results[0].NcoCode)
	assert.Equal(t, "75320101", results[1].NcoCode)
}

func TestSearchService(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	audit := NewAuditService(store, zap.NewNop())
	svc := NewSearchService(store, audit, zap.NewNop())
	svc.jitter = fixed(0)

	results, err := svc.Search(ctx, models.PublicIdentity(), "software developer")
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = svc.Search(ctx, models.PublicIdentity(), "gibberish xyz")
	require.NoError(t, err)
	assert.Empty(t, results)

	logs, err := audit.List(ctx, string(models.AuditSearch))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Nil(t, logs[0].Confidence)
	require.NotNil(t, logs[1].Confidence)
	assert.InDelta(t, 0.95, *logs[1].Confidence, 1e-9)
	assert.Equal(t, "25120101", logs[1].NcoCode)
	assert.Equal(t, "Public User", logs[1].Actor)

	occ, err := svc.Details("51210101")
	require.NoError(t, err)
	assert.Equal(t, "Cook (General)", occ.Title)
	_, err = svc.Details("99999999")
	assert.ErrorIs(t, err, ErrOccupationNotFound)
}
