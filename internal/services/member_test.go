package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repair-office/internal/dto"
	"repair-office/internal/repositories"
	"repair-office/pkg/config"
	apperrors "repair-office/pkg/errors"
	"repair-office/pkg/service"
)

func newMemberService(t *testing.T) (*MemberService, *repositories.MemoryCacheRepository) {
	t.Helper()
	cache := repositories.NewMemoryCacheRepository(nil)
	svc := &MemberService{
		repo:       newFakeMemberRepo(),
		cache:      cache,
		jwtService: service.NewJWTService("test-secret", time.Hour, 24*time.Hour, zap.NewNop()),
		cfg:        config.AuthConfig{MaxLoginAttempts: 3, LockoutDuration: time.Minute},
		logger:     zap.NewNop(),
	}
	_, err := svc.Register(context.Background(), dto.RegisterMemberDTO{
		Email:    "Tech@Example.com",
		Password: "secret123",
		FName:    "สมชาย",
		LName:    "ช่างดี",
	})
	require.NoError(t, err)
	return svc, cache
}

func TestMemberService_Register(t *testing.T) {
	svc, _ := newMemberService(t)

	_, err := svc.Register(context.Background(), dto.RegisterMemberDTO{Email: "tech@example.com ", Password: "other1", FName: "a", LName: "b"})
	assert.ErrorIs(t, err, apperrors.ErrUserExists)

	m, err := svc.repo.FindByEmail(context.Background(), "tech@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", m.Password)
}

func TestMemberService_LoginAndTokens(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemberService(t)

	tokens, err := svc.Login(ctx, dto.LoginDTO{Email: "TECH@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), tokens.ExpiresIn)

	who, err := svc.Authen(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "tech@example.com", who.Email)
	assert.Equal(t, int64(1), who.MemberID)

	_, err = svc.Authen(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenIsNotAccess)

	refreshed, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenIsNotRefresh)

	_, err = svc.Authen(ctx, "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestMemberService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemberService(t)

	_, err := svc.Login(ctx, dto.LoginDTO{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = svc.Login(ctx, dto.LoginDTO{Email: "tech@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestMemberService_Lockout(t *testing.T) {
	ctx := context.Background()
	svc, cache := newMemberService(t)
	bad := dto.LoginDTO{Email: "tech@example.com", Password: "wrong"}

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, bad)
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}

	_, err := svc.Login(ctx, dto.LoginDTO{Email: "tech@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrTooManyAttempts)

	require.NoError(t, cache.Del(ctx, lockoutKeyPrefix+"tech@example.com"))
	_, err = svc.Login(ctx, dto.LoginDTO{Email: "tech@example.com", Password: "secret123"})
	assert.NoError(t, err)
}

func TestMemberService_SuccessResetsCounter(t *testing.T) {
	ctx := context.Background()
	svc, cache := newMemberService(t)

	_, err := svc.Login(ctx, dto.LoginDTO{Email: "tech@example.com", Password: "wrong"})
	require.Error(t, err)
	_, err = svc.Login(ctx, dto.LoginDTO{Email: "tech@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = cache.Get(ctx, loginAttemptsKeyPrefix+"tech@example.com")
	assert.ErrorIs(t, err, repositories.ErrCacheMiss)
}
