package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "repair-office/pkg/errors"
)

func newTestJWT(now time.Time) *jwtService {
	svc := NewJWTService("secret", time.Hour, 24*time.Hour, zap.NewNop()).(*jwtService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestJWT_RoundTrip(t *testing.T) {
	issued := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
	svc := newTestJWT(issued)

	access, refresh, err := svc.GenerateTokens(7, "desk@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.MemberID)
	assert.Equal(t, "desk@example.com", claims.Email)
	assert.False(t, claims.IsRefreshToken)
	assert.Equal(t, issued.Add(time.Hour), claims.ExpiresAt.Time.UTC())

	claims, err = svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, claims.IsRefreshToken)
	assert.Equal(t, issued.Add(24*time.Hour), claims.ExpiresAt.Time.UTC())
}

func TestJWT_Rejects(t *testing.T) {
	issued := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
	access, _, err := newTestJWT(issued).GenerateTokens(7, "desk@example.com")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		_, err := newTestJWT(issued.Add(2 * time.Hour)).ValidateToken(access)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewJWTService("another", time.Hour, time.Hour, zap.NewNop()).(*jwtService)
		other.now = func() time.Time { return issued }
		_, err := other.ValidateToken(access)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &JwtCustomClaim{MemberID: 7})
		raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = newTestJWT(issued).ValidateToken(raw)
		assert.ErrorIs(t, err, apperrors.ErrInvalidSigningMethod)
	})
}
