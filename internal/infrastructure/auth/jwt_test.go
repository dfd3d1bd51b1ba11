package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopfin/backend/internal/infrastructure/config"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret: "test-secret-that-is-long-enough-123",
		Issuer: "coop-backend-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "teller1", []string{"teller"}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "teller1", claims.Username)
	assert.True(t, claims.HasRole("teller"))
	assert.False(t, claims.HasRole("admin"))

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestJWTService_ValidateToken_Errors(t *testing.T) {
	svc := newTestService()

	t.Run("rejects garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		token, err := svc.GenerateToken(uuid.New(), "teller1", nil, -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects token signed with different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret: "another-secret-entirely-456789012345",
			Issuer: "coop-backend-test",
		})
		token, err := other.GenerateToken(uuid.New(), "teller1", nil, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
