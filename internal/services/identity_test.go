package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityService_RoundTrip(t *testing.T) {
	s := NewIdentityService("test-secret")

	token, err := s.GenerateJWT("user-1")
	require.NoError(t, err)

	userID, err := s.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestIdentityService_RejectsForeignAndExpiredTokens(t *testing.T) {
	s := NewIdentityService("test-secret")

	other, err := NewIdentityService("other-secret").GenerateJWT("user-1")
	require.NoError(t, err)
	_, err = s.ValidateJWT(other)
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = s.ValidateJWT(signed)
	assert.Error(t, err)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err = noUser.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = s.ValidateJWT(signed)
	assert.Error(t, err)
}

func TestIdentityService_DisabledWithoutSecret(t *testing.T) {
	s := NewIdentityService("")
	assert.False(t, s.Enabled())

	_, err := s.GenerateJWT("user-1")
	assert.Error(t, err)
	_, err = s.ValidateJWT("anything")
	assert.Error(t, err)
}
