package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dispatch-service/internal/config"
	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/repository"
	apperrors "github.com/spec-kit/dispatch-service/pkg/util"
)

func newAuthService() *AuthService {
	cfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5, BcryptCost: 4}
	return NewAuthService(cfg, repository.NewMemoryUserRepository())
}

func TestAuthServiceLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Anna", "Anna@Example.com", "123456", domain.RoleDispatcher)
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", user.Email)

	result, err := svc.Login(ctx, "anna@example.com", "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)

	claims, err := svc.TokenManager().ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.ActorID)
	assert.Equal(t, domain.RoleDispatcher, claims.Role)
}

func TestAuthServiceLoginFailures(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Petr", "petr@example.com", "123456", domain.RoleMaster)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "petr@example.com", "wrong")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	_, err = svc.Login(ctx, "nobody@example.com", "123456")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	_, err = svc.Login(ctx, "", "")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "x@example.com", "123456", domain.RoleMaster)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = svc.Register(ctx, "X", "x@example.com", "123456", domain.Role("admin"))
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}
