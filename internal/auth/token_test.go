package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManagerIssueAndVerify(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager("test-secret", time.Hour)

	token, err := manager.Issue("user-123")
	require.NoError(t, err)

	userID, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestTokenManagerExpired(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager("test-secret", time.Hour)

	// craft a token whose expiry is already in the past
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = manager.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManagerWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewTokenManager("right-secret", time.Hour).Issue("user-123")
	require.NoError(t, err)

	_, err = NewTokenManager("wrong-secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManagerMalformed(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager("test-secret", time.Hour)

	for _, tc := range []string{"", "garbage", "not.a.jwt"} {
		_, err := manager.Verify(tc)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestTokenManagerDefaultTTL(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager("test-secret", 0)
	token, err := manager.Issue("user-123")
	require.NoError(t, err)

	userID, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}
