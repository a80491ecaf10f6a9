package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123")

	assert.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPassword("secret123", string(hash)))
	assert.False(t, CheckPassword("secret124", string(hash)))
}

func TestGenerateJWT_CarriesIdentityAndTTL(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT("42")
	assert.NoError(t, err)

	claims, err := ParseJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "42", claims.Subject)

	expAt, err := claims.GetExpirationTime()
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), expAt.Time, time.Minute)
}

func TestParseJWT_RejectsWrongSecret(t *testing.T) {
	InitJWT("secret-a")
	token, err := GenerateJWT("42")
	assert.NoError(t, err)

	InitJWT("secret-b")
	_, err = ParseJWT(token)
	assert.Error(t, err)
}
