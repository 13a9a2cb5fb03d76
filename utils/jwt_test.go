package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)

	signed, err := tokens.GenerateToken(42, "ana@example.com", "admin")
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateTokenRejects(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)

	otherKey, err := NewTokenManager("other", time.Hour).GenerateToken(1, "a@b.c", "customer")
	require.NoError(t, err)

	expired, err := NewTokenManager("secret", -time.Minute).GenerateToken(1, "a@b.c", "customer")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong key": otherKey,
		"expired":   expired,
		"alg none":  unsigned,
		"garbage":   "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.ValidateToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
