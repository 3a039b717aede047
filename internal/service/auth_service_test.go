package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("JWT_SECRET", "test-secret")
	return NewAuthService()
}

func TestLoginAndValidate(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Login("admin", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, claims.UserID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// A user owns forms by UserID, so logging in again after a token expires
// must produce the same ID.
func TestLoginUserIDStableAcrossLogins(t *testing.T) {
	svc := newTestAuthService(t)

	first, err := svc.Login("admin", "hunter2")
	require.NoError(t, err)
	second, err := svc.Login("admin", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, first.UserID, second.UserID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t)
	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
