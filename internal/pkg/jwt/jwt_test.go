package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService("test-secret", "1h", "24h")
	require.NoError(t, err)
	return svc.(*JWTService)
}

func TestNewJWTService_RejectsBadLifetime(t *testing.T) {
	_, err := NewJWTService("k", "soon", "24h")
	assert.Error(t, err)
}

func TestAccessToken_Claims(t *testing.T) {
	svc := newService(t)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "jane@example.com", []string{"EMPLOYEE", "HR"})
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := parsed.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "jane@example.com", claims["email"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
	assert.Equal(t, []interface{}{"EMPLOYEE", "HR"}, claims["roles"])
}

func TestRefreshToken_TypeIsEnforced(t *testing.T) {
	svc := newService(t)

	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	userID, err := svc.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	access, _, err := svc.GenerateAccessToken("user-1", "jane@example.com", []string{"EMPLOYEE"})
	require.NoError(t, err)
	_, err = svc.ParseRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = svc.ValidateSSEToken(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestSSEToken(t *testing.T) {
	svc := newService(t)

	token, expiresIn, err := svc.GenerateSSEToken("user-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	svc := newService(t)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.GenerateSSEToken("user-1")
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestTamperedTokenIsRejected(t *testing.T) {
	svc := newService(t)
	other, err := NewJWTService("other-secret", "1h", "24h")
	require.NoError(t, err)

	token, _, err := other.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	_, err = svc.ParseRefreshToken(token)
	assert.Error(t, err)
}
