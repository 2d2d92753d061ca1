package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantryledger/pantryledger/internal/auth"
	"github.com/pantryledger/pantryledger/internal/domain"
)

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, " cook@example.com ", "hunter2hunter2", "Cook")
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", user.Email)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)

	session, err := env.auth.Login(ctx, "COOK@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)
	assert.NotEmpty(t, session.Token)

	claims, err := auth.NewIssuer("test-secret", 0).Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
}

func TestAuthServiceRegister_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "", "hunter2hunter2", "Cook")
	assert.True(t, domain.IsValidation(err))

	_, err = env.auth.Register(ctx, "cook@example.com", "short", "Cook")
	assert.True(t, domain.IsValidation(err))

	_, err = env.auth.Register(ctx, "cook@example.com", "hunter2hunter2", "Cook")
	require.NoError(t, err)
	_, err = env.auth.Register(ctx, "cook@example.com", "hunter2hunter2", "Cook")
	assert.True(t, domain.IsValidation(err))
}

func TestAuthServiceRegister_DefaultsDisplayName(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register(context.Background(), "cook@example.com", "hunter2hunter2", " ")
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", user.DisplayName)
}

func TestAuthServiceLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, "cook@example.com", "hunter2hunter2", "Cook")
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, "cook@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, "nobody@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, err := env.auth.Register(ctx, "cook@example.com", "hunter2hunter2", "Cook")
	require.NoError(t, err)

	profile, err := env.auth.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cook", profile.DisplayName)

	_, err = env.auth.Profile(ctx, "missing")
	assert.True(t, domain.IsNotFound(err))
}
