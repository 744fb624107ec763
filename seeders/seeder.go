package seeders

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"repair-office/internal/dto"
	apperrors "repair-office/pkg/errors"
)

// Registrar is the member registration the seeders go through, so seeded
// passwords are hashed the same way as registered ones.
type Registrar interface {
	Register(ctx context.Context, payload dto.RegisterMemberDTO) (*dto.MemberDTO, error)
}

// SeedMembers registers each member and skips emails that already exist.
// It returns how many were created.
func SeedMembers(ctx context.Context, reg Registrar, members []dto.RegisterMemberDTO, logger *zap.Logger) (int, error) {
	created := 0
	for _, m := range members {
		res, err := reg.Register(ctx, m)
		if errors.Is(err, apperrors.ErrUserExists) {
			logger.Info("seed: member already exists, skipping", zap.String("email", m.Email))
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed member %s: %w", m.Email, err)
		}
		logger.Info("seed: member created", zap.Int64("memberId", res.ID), zap.String("email", res.Email))
		created++
	}
	return created, nil
}
