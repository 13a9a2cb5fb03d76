package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	ok, err := VerifyPassword(hash, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "battery staple")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestVerifyPasswordWithoutHash(t *testing.T) {
	ok, err := VerifyPassword("", "anything")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("not-a-hash", "anything")
	assert.ErrorIs(t, err, ErrMalformedHash)
}
