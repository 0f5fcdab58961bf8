package auth

import (
	"testing"

	"payments-monitor/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.Issuer = "payments-monitor"
	cfg.JWT.ExpirationHours = 1
	return cfg
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig("s3cret"))

	token, err := m.GenerateToken("ops@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	token, err := NewJWTManager(testConfig("other")).GenerateToken("ops@example.com")
	require.NoError(t, err)

	_, err = NewJWTManager(testConfig("s3cret")).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsNonAdmin(t *testing.T) {
	claims := &Claims{Email: "x@example.com", Role: "viewer", RegisteredClaims: jwt.RegisteredClaims{Issuer: "payments-monitor"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = NewJWTManager(testConfig("s3cret")).ValidateToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "hunter2"))
	assert.False(t, VerifyPassword(hash, "hunter3"))
	assert.False(t, VerifyPassword("", "hunter2"))
}
