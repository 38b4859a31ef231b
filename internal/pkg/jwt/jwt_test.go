package jwt

import (
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	tokenString, expiresAt, err := svc.GenerateAccessToken("user-1", true)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	claims := token.PrivateClaims()
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, true, claims["is_admin"])
	assert.Equal(t, "access", claims["type"])

	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), float64(expiresAt), 5)
	assert.Equal(t, time.Unix(expiresAt, 0).UTC(), token.Expiration().UTC())
}

func TestGenerateAccessToken_InvalidExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "not-a-duration")

	_, _, err := svc.GenerateAccessToken("user-1", false)
	assert.Error(t, err)
}

func TestGenerateAccessToken_WrongSecretRejected(t *testing.T) {
	minter := NewJWTService("secret-a", "1h")
	verifier := NewJWTService("secret-b", "1h")

	tokenString, _, err := minter.GenerateAccessToken("user-1", false)
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(verifier.JWTAuth(), tokenString)
	assert.Error(t, err)
}
