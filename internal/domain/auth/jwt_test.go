package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", 15*time.Minute)
	u := NewUser(id.New(), "owner@example.com", "Owner", "hash")

	token, err := m.Generate(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, u.BusinessID.String(), claims.BusinessID)
	assert.Equal(t, u.Email, claims.Email)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	m := NewTokenManager("test-secret", 15*time.Minute)
	u := NewUser(id.New(), "owner@example.com", "Owner", "hash")

	token, err := m.Generate(u)
	require.NoError(t, err)

	other := NewTokenManager("different-secret", 15*time.Minute)
	_, err = other.Verify(token)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute)
	u := NewUser(id.New(), "owner@example.com", "Owner", "hash")

	token, err := m.Generate(u)
	require.NoError(t, err)

	_, err = m.Verify(token)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestTokenManager_Garbage(t *testing.T) {
	m := NewTokenManager("test-secret", 15*time.Minute)
	_, err := m.Verify("not.a.token")
	assert.Error(t, err)
}
