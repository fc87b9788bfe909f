package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("issues token and records login", func(t *testing.T) {
		f := newFixture(t)
		f.addUser(t, enumeratorPhone, "Field Enumerator", models.RoleEnumerator, true)
		_, err := f.otp.RequestOTP(ctx, enumeratorPhone)
		require.NoError(t, err)

		resp, err := f.auth.Login(ctx, enumeratorPhone, f.sender.last(t).code)
		require.NoError(t, err)
		assert.Equal(t, enumeratorPhone, resp.Phone)
		assert.Equal(t, models.RoleEnumerator, resp.Role)
		assert.Equal(t, "Field Enumerator", resp.Name)

		identity, err := f.tokens.Verify(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, enumeratorPhone, identity.Phone)

		user, err := f.store.GetUserByPhone(ctx, enumeratorPhone)
		require.NoError(t, err)
		require.NotNil(t, user.LastLogin)
		assert.True(t, user.LastLogin.Equal(f.clock.Now()))

		logs, err := f.audit.List(ctx, string(models.AuditLogin))
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})

	t.Run("account deactivated after request", func(t *testing.T) {
		f := newFixture(t)
		f.addUser(t, enumeratorPhone, "Field Enumerator", models.RoleEnumerator, true)
		_, err := f.otp.RequestOTP(ctx, enumeratorPhone)
		require.NoError(t, err)
		_, err = f.store.ToggleUserActive(ctx, enumeratorPhone)
		require.NoError(t, err)

		_, err = f.auth.Login(ctx, enumeratorPhone, f.sender.last(t).code)
		assert.ErrorIs(t, err, ErrAccountInactive)
	})

	t.Run("account deleted after request", func(t *testing.T) {
		f := newFixture(t)
		f.addUser(t, enumeratorPhone, "Field Enumerator", models.RoleEnumerator, true)
		_, err := f.otp.RequestOTP(ctx, enumeratorPhone)
		require.NoError(t, err)
		require.NoError(t, f.store.DeleteUser(ctx, enumeratorPhone))

		_, err = f.auth.Login(ctx, enumeratorPhone, f.sender.last(t).code)
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("demo accounts only when enabled", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.otp.RequestOTP(ctx, "9876543210")
		assert.ErrorIs(t, err, ErrAccountNotFound)

		f.users.EnableDemoAccounts()
		_, err = f.otp.RequestOTP(ctx, "9876543210")
		require.NoError(t, err)
		resp, err := f.auth.Login(ctx, "9876543210", f.sender.last(t).code)
		require.NoError(t, err)
		assert.Equal(t, "Test Enumerator", resp.Name)
	})
}
