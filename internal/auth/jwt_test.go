package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService("test-secret-key", "admithub-test", time.Hour)
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateToken(1, "admin", RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.StaffID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "admithub-test", claims.Issuer)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := newTestService().GenerateToken(1, "admin", RoleAdmin)
	require.NoError(t, err)

	other := NewJWTService("different-secret", "admithub-test", time.Hour)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret-key", "admithub-test", -time.Minute)

	token, err := svc.GenerateToken(1, "admin", RoleAdmin)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := newTestService().ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestRefreshTokenPreservesClaims(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateToken(7, "counselor-jane", RoleCounselor)
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(token)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(refreshed)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.StaffID)
	assert.Equal(t, "counselor-jane", claims.Username)
	assert.Equal(t, RoleCounselor, claims.Role)
}

func TestHasRole(t *testing.T) {
	admin := &StaffClaims{Role: RoleAdmin}
	assert.True(t, admin.HasRole(RoleAdmin))
	// admin覆盖所有角色
	assert.True(t, admin.HasRole(RoleCounselor))

	counselor := &StaffClaims{Role: RoleCounselor}
	assert.True(t, counselor.HasRole(RoleCounselor))
	assert.False(t, counselor.HasRole(RoleAdmin))
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := ExtractTokenFromHeader("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = ExtractTokenFromHeader("")
	assert.Error(t, err)

	_, err = ExtractTokenFromHeader("Basic abc123")
	assert.Error(t, err)

	_, err = ExtractTokenFromHeader("Bearer ")
	assert.Error(t, err)
}

func TestNewJWTServicePanicsOnEmptySecret(t *testing.T) {
	assert.Panics(t, func() { NewJWTService("", "issuer", time.Hour) })
}
