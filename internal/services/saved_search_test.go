package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/storage"
)

func TestSavedSearchService(t *testing.T) {
	ctx := context.Background()
	svc := NewSavedSearchService(storage.NewMemoryStore())
	alice := &models.Identity{Phone: "8925341040", Role: models.RoleEnumerator}
	bob := &models.Identity{Phone: "8610873826", Role: models.RoleEnumerator}

	saved, err := svc.Save(ctx, alice, " tailor in a garment unit ")
	require.NoError(t, err)
	assert.Equal(t, "tailor in a garment unit", saved.Query)
	assert.Len(t, saved.ID, 36)

	mine, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	assert.ErrorIs(t, svc.Delete(ctx, bob, saved.ID), ErrSavedSearchNotFound)
	require.NoError(t, svc.Delete(ctx, alice, saved.ID))
	assert.ErrorIs(t, svc.Delete(ctx, alice, saved.ID), ErrSavedSearchNotFound)
}
