package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
)

const enumeratorPhone = "8925341040"

func TestRequestOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and sends a six digit code", func(t *testing.T) {
		f := newFixture(t)
		f.addUser(t, enumeratorPhone, "Enumerator", models.RoleEnumerator, true)

		phone, err := f.otp.RequestOTP(ctx, "89253 41040")
		require.NoError(t, err)
		assert.Equal(t, enumeratorPhone, phone)

		sent := f.sender.last(t)
		assert.Equal(t, enumeratorPhone, sent.phone)
		assert.Len(t, sent.code, 6)

		record, err := f.ledger.Get(ctx, enumeratorPhone)
		require.NoError(t, err)
		assert.Equal(t, sent.code, record.Code)
		assert.Equal(t, 0, record.Attempts)
		assert.Equal(t, f.clock.Now().Add(5*time.Minute), record.ExpiresAt)
	})

	t.Run("rejects malformed phone", func(t *testing.T) {
		f := newFixture(t)
		for _, raw := range []string{"12345", "5925341040", "89253410401", "abcdefghij"} {
			_, err := f.otp.RequestOTP(ctx, raw)
			assert.ErrorIs(t, err, ErrInvalidPhone, raw)
		}
		assert.Empty(t, f.sender.sent)
	})

	t.Run("unknown account", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.otp.RequestOTP(ctx, enumeratorPhone)
		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.False(t, f.hasOTP(t, enumeratorPhone))
	})

	t.Run("inactive account", func(t *testing.T) {
		f := newFixture(t)
		f.addUser(t, enumeratorPhone, "Enumerator", models.RoleEnumerator, false)
		_, err := f.otp.RequestOTP(ctx, enumeratorPhone)
		assert.ErrorIs(t, err, ErrAccountInactive)
		assert.False(t, f.hasOTP(t, enumeratorPhone))
	})

	t.Run("send failure keeps record by default", func(t *testing.T) {
		f := newFixture(t)
		f.addUser(t, enumeratorPhone, "Enumerator", models.RoleEnumerator, true)
		f.sender.err = &DeliveryError{Provider: "fake", Code: 21608, Message: "not verified"}

		_, err := f.otp.RequestOTP(ctx, enumeratorPhone)
		var derr *DeliveryError
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, 21608, derr.Code)
		assert.True(t, f.hasOTP(t, enumeratorPhone))
	})

	t.Run("send failure rolls back when configured", func(t *testing.T) {
		f := newFixture(t)
		f.addUser(t, enumeratorPhone, "Enumerator", models.RoleEnumerator, true)
		f.otp.rollback = true
		f.sender.err = &DeliveryError{Provider: "fake", Message: "down"}

		_, err := f.otp.RequestOTP(ctx, enumeratorPhone)
		require.Error(t, err)
		assert.False(t, f.hasOTP(t, enumeratorPhone))
	})
}

func TestVerifyOTP(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, string) {
		f := newFixture(t)
		f.addUser(t, enumeratorPhone, "Enumerator", models.RoleEnumerator, true)
		_, err := f.otp.RequestOTP(ctx, enumeratorPhone)
		require.NoError(t, err)
		return f, f.sender.last(t).code
	}

	t.Run("code is single use", func(t *testing.T) {
		f, code := setup(t)
		require.NoError(t, f.otp.VerifyOTP(ctx, enumeratorPhone, code))
		assert.ErrorIs(t, f.otp.VerifyOTP(ctx, enumeratorPhone, code), ErrOTPNotFound)
	})

	t.Run("second request invalidates the first code", func(t *testing.T) {
		f, first := setup(t)
		f.otp.generate = func() (string, error) { return "222222", nil }
		if first == "222222" {
			f.otp.generate = func() (string, error) { return "333333", nil }
		}
		_, err := f.otp.RequestOTP(ctx, enumeratorPhone)
		require.NoError(t, err)
		second := f.sender.last(t).code

		var invalid *InvalidOTPError
		assert.True(t, errors.As(f.otp.VerifyOTP(ctx, enumeratorPhone, first), &invalid))
		assert.NoError(t, f.otp.VerifyOTP(ctx, enumeratorPhone, second))
	})

	t.Run("wrong codes count attempts", func(t *testing.T) {
		f, code := setup(t)
		wrong := "000000"
		if code == wrong {
			wrong = "111111"
		}

		var invalid *InvalidOTPError
		err := f.otp.VerifyOTP(ctx, enumeratorPhone, wrong)
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, 1, invalid.Attempt)
		assert.Equal(t, 3, invalid.MaxAttempts)

		err = f.otp.VerifyOTP(ctx, enumeratorPhone, wrong)
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, 2, invalid.Attempt)

		assert.ErrorIs(t, f.otp.VerifyOTP(ctx, enumeratorPhone, wrong), ErrOTPAttemptsExceeded)
		assert.ErrorIs(t, f.otp.VerifyOTP(ctx, enumeratorPhone, code), ErrOTPNotFound)
	})

	t.Run("expired code is deleted", func(t *testing.T) {
		f, code := setup(t)
		f.clock.Advance(5*time.Minute + time.Second)

		assert.ErrorIs(t, f.otp.VerifyOTP(ctx, enumeratorPhone, code), ErrOTPExpired)
		assert.False(t, f.hasOTP(t, enumeratorPhone))
		assert.ErrorIs(t, f.otp.VerifyOTP(ctx, enumeratorPhone, code), ErrOTPNotFound)
	})

	t.Run("expired code survives a sweep inside retention", func(t *testing.T) {
		f, code := setup(t)
		f.clock.Advance(5*time.Minute + 30*time.Second)

		removed, err := f.ledger.DeleteExpired(ctx, f.clock.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Zero(t, removed)
		assert.ErrorIs(t, f.otp.VerifyOTP(ctx, enumeratorPhone, code), ErrOTPExpired)
	})

	t.Run("code is valid until the expiry instant", func(t *testing.T) {
		f, code := setup(t)
		f.clock.Advance(4*time.Minute + 59*time.Second)
		assert.NoError(t, f.otp.VerifyOTP(ctx, enumeratorPhone, code))
	})

	t.Run("no record", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.otp.VerifyOTP(ctx, enumeratorPhone, "123456"), ErrOTPNotFound)
	})
}
