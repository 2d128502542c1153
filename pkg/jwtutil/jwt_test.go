package jwtutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storefront-service/pkg/config"
)

func TestGenerateAndValidateToken(t *testing.T) {
	Initialize(&config.JWTConfig{
		SigningKey:     "test-signing-key",
		ExpirationTime: time.Hour,
	})

	token, err := GenerateToken("shopper@example.com", 42, "customer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "shopper@example.com", claims.Email)
	require.EqualValues(t, 42, claims.UserID)
	require.Equal(t, "customer", claims.Role)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	Initialize(&config.JWTConfig{
		SigningKey:     "test-signing-key",
		ExpirationTime: -time.Minute,
	})

	token, err := GenerateToken("shopper@example.com", 42, "customer")
	require.NoError(t, err)

	_, err = ValidateToken(token)
	require.Error(t, err)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	Initialize(&config.JWTConfig{
		SigningKey:     "key-one",
		ExpirationTime: time.Hour,
	})
	token, err := GenerateToken("shopper@example.com", 42, "customer")
	require.NoError(t, err)

	Initialize(&config.JWTConfig{
		SigningKey:     "key-two",
		ExpirationTime: time.Hour,
	})
	_, err = ValidateToken(token)
	require.Error(t, err)
}
