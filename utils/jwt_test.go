package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenPairRoundTrip(t *testing.T) {
	access, refresh, err := GenerateTokenPair(42, "keith", "customer")
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := ValidateToken(access)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "keith", claims.Username)
	assert.Equal(t, "customer", claims.UserType)
	assert.Equal(t, "access", claims.Kind)
	assert.NotEmpty(t, claims.JTI)
	assert.True(t, claims.Exp.After(time.Now()))

	refreshClaims, err := ValidateToken(refresh)
	assert.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.Kind)
	assert.NotEqual(t, claims.JTI, refreshClaims.JTI, "each token carries its own id")
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = ValidateToken("")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "-1h")
	access, _, err := GenerateTokenPair(1, "old", "customer")
	assert.NoError(t, err)

	_, err = ValidateToken(access)
	assert.True(t, errors.Is(err, ErrExpiredToken))
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	access, _, err := GenerateTokenPair(1, "alice", "customer")
	assert.NoError(t, err)

	tampered := access[:len(access)-2] + "xx"
	_, err = ValidateToken(tampered)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
