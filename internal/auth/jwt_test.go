package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	token, err := tokens.GenerateToken("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)
}

func TestValidateToken_Invalid(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	_, err := tokens.ValidateToken("invalid.token")
	require.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewTokens("one", time.Hour).GenerateToken("alice")
	require.NoError(t, err)

	_, err = NewTokens("two", time.Hour).ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	tokens := NewTokens("test-secret", -time.Minute)
	token, err := tokens.GenerateToken("alice")
	require.NoError(t, err)

	_, err = tokens.ValidateToken(token)
	require.Error(t, err)
}

func TestCredentials(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	creds := Credentials{Username: "alice", PasswordHash: hash}
	require.NoError(t, creds.Check("alice", "s3cret"))
	require.ErrorIs(t, creds.Check("alice", "wrong"), ErrInvalidCredentials)
	require.ErrorIs(t, creds.Check("bob", "s3cret"), ErrInvalidCredentials)

	_, err = HashPassword("")
	require.Error(t, err)
}
