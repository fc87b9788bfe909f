package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
)

func TestUserService(t *testing.T) {
	ctx := context.Background()

	t.Run("register defaults to enumerator", func(t *testing.T) {
		f := newFixture(t)
		user, err := f.users.Register(ctx, "Admin", models.UserRegistration{Phone: "86108-73826", Name: " New User "})
		require.NoError(t, err)
		assert.Equal(t, "8610873826", user.Phone)
		assert.Equal(t, "New User", user.Name)
		assert.Equal(t, models.RoleEnumerator, user.Role)
		assert.True(t, user.IsActive)

		_, err = f.users.Register(ctx, "Admin", models.UserRegistration{Phone: "8610873826", Name: "Again"})
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("register validates input", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.users.Register(ctx, "Admin", models.UserRegistration{Phone: "123", Name: "X"})
		assert.ErrorIs(t, err, ErrInvalidPhone)
		_, err = f.users.Register(ctx, "Admin", models.UserRegistration{Phone: "8610873826", Name: "X", Role: "ROOT"})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("toggle and delete", func(t *testing.T) {
		f := newFixture(t)
		f.addUser(t, enumeratorPhone, "Enumerator", models.RoleEnumerator, true)

		active, err := f.users.ToggleStatus(ctx, "Admin", enumeratorPhone)
		require.NoError(t, err)
		assert.False(t, active)

		users, err := f.users.ListActive(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)

		active, err = f.users.ToggleStatus(ctx, "Admin", enumeratorPhone)
		require.NoError(t, err)
		assert.True(t, active)

		require.NoError(t, f.users.Delete(ctx, "Admin", enumeratorPhone))
		assert.ErrorIs(t, f.users.Delete(ctx, "Admin", enumeratorPhone), ErrUserNotFound)
		_, err = f.users.ToggleStatus(ctx, "Admin", enumeratorPhone)
		assert.ErrorIs(t, err, ErrUserNotFound)

		logs, err := f.audit.List(ctx, "ALL")
		require.NoError(t, err)
		require.Len(t, logs, 3)
		assert.Equal(t, models.AuditUserDelete, logs[0].Action)
	})

	t.Run("ensure admins bootstraps admin accounts", func(t *testing.T) {
		f := newFixture(t)
		f.addUser(t, enumeratorPhone, "Enumerator", models.RoleEnumerator, true)

		n, err := f.users.EnsureAdmins(ctx, []string{"98765 43210", enumeratorPhone})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		admin, err := f.users.FindActive(ctx, "9876543210")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, admin.Role)
		assert.Equal(t, "9876543210 - Admin", admin.Name)

		existing, err := f.users.FindActive(ctx, enumeratorPhone)
		require.NoError(t, err)
		assert.Equal(t, models.RoleEnumerator, existing.Role)

		n, err = f.users.EnsureAdmins(ctx, []string{"9876543210"})
		require.NoError(t, err)
		assert.Zero(t, n)

		_, err = f.users.EnsureAdmins(ctx, []string{"12345"})
		assert.ErrorIs(t, err, ErrInvalidPhone)
	})

	t.Run("seed is idempotent", func(t *testing.T) {
		f := newFixture(t)
		n, err := f.users.Seed(ctx)
		require.NoError(t, err)
		assert.Equal(t, len(SeedUsers), n)

		n, err = f.users.Seed(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
