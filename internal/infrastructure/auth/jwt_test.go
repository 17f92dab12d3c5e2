package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret", 15, 30)

	pair, err := svc.Generate(7, "session-abc", "subscriber")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.EqualValues(t, 15*60, pair.ExpiresIn)

	claims, err := svc.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, "session-abc", claims.SessionID)
	assert.Equal(t, "subscriber", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	refreshClaims, err := svc.Verify(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refreshClaims.TokenType)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	pair, err := NewJWTService("secret-a", 15, 30).Generate(7, "s", "subscriber")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", 15, 30).Verify(pair.AccessToken)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", -1, 30)

	pair, err := svc.Generate(7, "s", "subscriber")
	require.NoError(t, err)

	_, err = svc.Verify(pair.AccessToken)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", 15, 30)

	_, err := svc.Verify("not.a.token")
	assert.Error(t, err)

	_, err = svc.Verify("")
	assert.Error(t, err)
}

func TestBcryptPasswordHasher_RoundTrip(t *testing.T) {
	hasher := NewBcryptPasswordHasher(4)

	hash, err := hasher.Hash("s3cretpass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", hash)

	assert.NoError(t, hasher.Verify("s3cretpass", hash))
	assert.Error(t, hasher.Verify("wrongpass", hash))
}

func TestBcryptPasswordHasher_UniqueSalts(t *testing.T) {
	hasher := NewBcryptPasswordHasher(4)

	h1, err := hasher.Hash("s3cretpass")
	require.NoError(t, err)
	h2, err := hasher.Hash("s3cretpass")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
