package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("ops", "ADMIN", "s3cret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestGenerateJWT_MissingSecret(t *testing.T) {
	_, err := GenerateJWT("ops", "ADMIN", "", time.Hour)
	assert.Error(t, err)
}

func TestParseJWT_Rejects(t *testing.T) {
	token, err := GenerateJWT("ops", "ADMIN", "s3cret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "other")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	expired, err := GenerateJWT("ops", "ADMIN", "s3cret", -time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "s3cret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "ops", Role: "ADMIN"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseJWT(raw, "s3cret")
	assert.Error(t, err)
}
