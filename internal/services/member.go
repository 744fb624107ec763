package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"repair-office/internal/dto"
	"repair-office/internal/entities"
	"repair-office/internal/repositories"
	"repair-office/pkg/config"
	apperrors "repair-office/pkg/errors"
	"repair-office/pkg/service"
	"repair-office/pkg/utils"
)

type MemberServiceInterface interface {
	Register(ctx context.Context, payload dto.RegisterMemberDTO) (*dto.MemberDTO, error)
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenResponseDTO, error)
	Authen(ctx context.Context, token string) (*dto.AuthenDTO, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponseDTO, error)
}

type MemberService struct {
	repo       repositories.MemberRepositoryInterface
	cache      repositories.CacheRepositoryInterface
	jwtService service.JWTService
	cfg        config.AuthConfig
	logger     *zap.Logger
}

func NewMemberService(
	repo repositories.MemberRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	cfg config.AuthConfig,
	logger *zap.Logger,
) MemberServiceInterface {
	return &MemberService{repo: repo, cache: cache, jwtService: jwtService, cfg: cfg, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *MemberService) Register(ctx context.Context, payload dto.RegisterMemberDTO) (*dto.MemberDTO, error) {
	hashed, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	m := entities.Member{
		Email:    normalizeEmail(payload.Email),
		Password: hashed,
		FName:    strings.TrimSpace(payload.FName),
		LName:    strings.TrimSpace(payload.LName),
	}
	id, err := s.repo.CreateMember(ctx, m)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserExists) {
			s.logger.Info("register: email taken", zap.String("email", m.Email))
		}
		return nil, err
	}

	s.logger.Info("member registered", zap.Int64("memberId", id))
	return &dto.MemberDTO{ID: id, Email: m.Email, FName: m.FName, LName: m.LName}, nil
}

// Login counts failed passwords per email. Reaching MaxLoginAttempts sets a
// lockout key for LockoutDuration; a successful login clears both.
func (s *MemberService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenResponseDTO, error) {
	email := normalizeEmail(payload.Email)
	attemptsKey := loginAttemptsKeyPrefix + email
	lockoutKey := lockoutKeyPrefix + email

	if _, err := s.cache.Get(ctx, lockoutKey); err == nil {
		s.logger.Warn("login while locked out", zap.String("email", email))
		return nil, apperrors.ErrTooManyAttempts
	}

	m, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	ok, err := utils.CheckPassword(m.Password, payload.Password)
	if err != nil {
		return nil, fmt.Errorf("login %d: %w", m.ID, err)
	}
	if !ok {
		s.recordFailedLogin(ctx, attemptsKey, lockoutKey)
		return nil, apperrors.ErrInvalidCredentials
	}

	invalidate(ctx, s.cache, s.logger, attemptsKey, lockoutKey)
	return s.issueTokens(m.ID, m.Email)
}

func (s *MemberService) recordFailedLogin(ctx context.Context, attemptsKey, lockoutKey string) {
	attempts, err := s.cache.Incr(ctx, attemptsKey, s.cfg.LockoutDuration)
	if err != nil {
		s.logger.Warn("login attempts counter failed", zap.Error(err))
		return
	}
	if s.cfg.MaxLoginAttempts > 0 && attempts >= int64(s.cfg.MaxLoginAttempts) {
		if err := s.cache.Set(ctx, lockoutKey, "locked", s.cfg.LockoutDuration); err != nil {
			s.logger.Warn("lockout not stored", zap.Error(err))
			return
		}
		invalidate(ctx, s.cache, s.logger, attemptsKey)
		s.logger.Warn("member locked out", zap.String("key", lockoutKey), zap.Duration("for", s.cfg.LockoutDuration))
	}
}

func (s *MemberService) Authen(ctx context.Context, token string) (*dto.AuthenDTO, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotAccess
	}

	res := &dto.AuthenDTO{MemberID: claims.MemberID, Email: claims.Email}
	if claims.ExpiresAt != nil {
		res.ExpiresAt = claims.ExpiresAt.Time
	}
	return res, nil
}

func (s *MemberService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponseDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	m, err := s.repo.FindByID(ctx, claims.MemberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}
	return s.issueTokens(m.ID, m.Email)
}

func (s *MemberService) issueTokens(memberID int64, email string) (*dto.TokenResponseDTO, error) {
	access, refresh, err := s.jwtService.GenerateTokens(memberID, email)
	if err != nil {
		s.logger.Error("token generation failed", zap.Int64("memberId", memberID), zap.Error(err))
		return nil, err
	}
	return &dto.TokenResponseDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtService.GetAccessTokenTTL().Seconds()),
	}, nil
}
