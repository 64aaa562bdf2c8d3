package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 10)

	token, expiresAt, err := tm.GenerateToken(42, domain.RoleMaster)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.ActorID)
	assert.Equal(t, domain.RoleMaster, claims.Role)
}

func TestTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret", 10)
	other := NewTokenManager("other", 10)

	token, _, err := tm.GenerateToken(1, domain.RoleDispatcher)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("123456", 4)
	require.NoError(t, err)
	require.NoError(t, ComparePassword(hash, "123456"))
	assert.Error(t, ComparePassword(hash, "654321"))
}
