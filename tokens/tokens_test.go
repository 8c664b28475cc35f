package tokens_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmed-Mansy/shoe-zone-online/models"
	"github.com/Ahmed-Mansy/shoe-zone-online/tokens"
)

func TestActivationToken(t *testing.T) {
	gen := tokens.New("test-secret")
	user := &models.User{ID: 42, Email: "new@example.com", IsActive: false}

	t.Run("round trip", func(t *testing.T) {
		token, err := gen.ActivationToken(user)
		require.NoError(t, err)
		assert.NoError(t, gen.VerifyActivation(token, user))
	})

	t.Run("activation burns the token", func(t *testing.T) {
		token, err := gen.ActivationToken(user)
		require.NoError(t, err)

		activated := *user
		activated.IsActive = true
		assert.ErrorIs(t, gen.VerifyActivation(token, &activated), tokens.ErrInvalidToken)
	})

	t.Run("purpose mismatch", func(t *testing.T) {
		token, err := gen.ActivationToken(user)
		require.NoError(t, err)
		assert.ErrorIs(t, gen.VerifyPasswordReset(token, user), tokens.ErrInvalidToken)
	})

	t.Run("another user's token is rejected", func(t *testing.T) {
		token, err := gen.ActivationToken(user)
		require.NoError(t, err)

		other := &models.User{ID: 43, IsActive: false}
		assert.ErrorIs(t, gen.VerifyActivation(token, other), tokens.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := gen.ActivationToken(user)
		require.NoError(t, err)

		otherGen := tokens.New("different-secret")
		assert.ErrorIs(t, otherGen.VerifyActivation(token, user), tokens.ErrInvalidToken)
	})
}

func TestPasswordResetToken(t *testing.T) {
	gen := tokens.New("test-secret")
	user := &models.User{ID: 7, Email: "reset@example.com", IsActive: true}
	require.NoError(t, user.SetPassword("old-password"))

	t.Run("round trip", func(t *testing.T) {
		token, err := gen.PasswordResetToken(user)
		require.NoError(t, err)
		assert.NoError(t, gen.VerifyPasswordReset(token, user))
	})

	t.Run("changing the password burns the token", func(t *testing.T) {
		token, err := gen.PasswordResetToken(user)
		require.NoError(t, err)

		changed := *user
		require.NoError(t, changed.SetPassword("new-password"))
		assert.ErrorIs(t, gen.VerifyPasswordReset(token, &changed), tokens.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.ErrorIs(t, gen.VerifyPasswordReset("not-a-token", user), tokens.ErrInvalidToken)
	})
}
