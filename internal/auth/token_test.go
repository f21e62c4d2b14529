package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, expiresAt, err := tm.GenerateToken("actor-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "actor-1", claims.ActorID)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", 60)
	other := NewTokenManager("secret-b", 60)

	token, _, err := tm.GenerateToken("actor-1")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	require.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("secret", 60)

	_, err := tm.ParseToken("not.a.token")
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.NoError(t, ComparePassword(hash, "hunter2"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
