package utils

import (
	"testing"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "unit-test-secret"}

	token, err := GenerateToken("player-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "player-123", claims.PlayerID)
	assert.Equal(t, "cyberops-ctf", claims.Issuer)
	assert.NotEmpty(t, claims.GetJTI())
}

func TestValidateToken_WrongSecret(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "secret-a"}
	token, err := GenerateToken("player-123")
	require.NoError(t, err)

	config.AppConfig = &config.Config{JWTSecret: "secret-b"}
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "unit-test-secret"}
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	assert.NotEqual(t, a, b)
	assert.True(t, IsUUID(a))
	assert.False(t, IsUUID("definitely-not"))
}

func TestGenerateInviteCode(t *testing.T) {
	code := GenerateInviteCode(8)
	assert.Len(t, code, 8)
	for _, r := range code {
		assert.Contains(t, inviteCharset, string(r))
	}
}
