package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/opentalk/forum/apperrors"
	"github.com/opentalk/forum/models"
)

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	t.Run("normalizes, hashes and defaults the role", func(t *testing.T) {
		user, err := svc.Register("  Alice ", " ALICE@Example.COM ", "s3cret-pw")
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, models.DefaultRole, user.Role)
		assert.NotEqual(t, "s3cret-pw", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pw")))
	})

	t.Run("username collides after normalization", func(t *testing.T) {
		_, err := svc.Register(" Alice ", "other@example.com", "another-pw")
		assert.ErrorIs(t, err, apperrors.ErrDuplicateUsername)
	})

	t.Run("email collides after normalization", func(t *testing.T) {
		_, err := svc.Register("carol", "Alice@example.com ", "another-pw")
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	})

	t.Run("reserved anonymous username rejected", func(t *testing.T) {
		_, err := svc.Register("  Anonymous ", "anon@example.com", "another-pw")
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("empty fields rejected", func(t *testing.T) {
		_, err := svc.Register("   ", "x@example.com", "pw")
		assert.True(t, apperrors.IsValidation(err))
		_, err = svc.Register("dave", "", "pw")
		assert.True(t, apperrors.IsValidation(err))
		_, err = svc.Register("dave", "dave@example.com", "  ")
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestFindByUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.Register("bob", "bob@example.com", "hunter22")
	require.NoError(t, err)

	t.Run("lookup normalizes its input", func(t *testing.T) {
		user, err := svc.FindByUsername("  BOB ")
		require.NoError(t, err)
		assert.Equal(t, "bob", user.Username)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.FindByUsername("nobody")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.Register("erin", "erin@example.com", "correct-horse")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate("Erin", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, "erin", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate("erin", "battery-staple")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown user looks identical to wrong password", func(t *testing.T) {
		_, err := svc.Authenticate("nobody", "whatever")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}
