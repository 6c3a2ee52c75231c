package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewManager("test-secret-0123456789", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(42, "reader@example.com", "reader")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "reader@example.com", claims.Email)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.False(t, claims.Refresh)
}

func TestParseToken_Rejects(t *testing.T) {
	m := NewManager("secret-a", time.Hour, time.Hour)
	pair, err := m.GenerateToken(1, "", "")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewManager("secret-b", time.Hour, time.Hour)
		_, err := other.ParseToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ParseToken("not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewManager("secret-a", time.Minute, time.Minute)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		old, err := past.GenerateToken(1, "", "")
		require.NoError(t, err)

		_, err = m.ParseToken(old.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken(9, "a@b.c", "n")
	require.NoError(t, err)

	access, err := m.RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)
	claims, err := m.ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(9), claims.UserID)

	_, err = m.RefreshAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
