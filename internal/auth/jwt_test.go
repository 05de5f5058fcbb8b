package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
)

func TestTokenManager_RoundtripCarriesRole(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	userID := uuid.New()
	token, err := tm.GenerateToken(userID, domain.RoleHD)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, domain.RoleHD, claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestTokenManager_UsesConfiguredTTL(t *testing.T) {
	ttl := 2 * time.Hour
	tm := NewTokenManager("test-secret", ttl)

	start := time.Now()

	token, err := tm.GenerateToken(uuid.New(), domain.RoleAdmin)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)

	expectedExpiry := start.Add(ttl)
	assert.WithinDuration(t, expectedExpiry, claims.ExpiresAt.Time, 2*time.Second)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).GenerateToken(uuid.New(), domain.RoleGuest)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}
