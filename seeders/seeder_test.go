package seeders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repair-office/internal/dto"
	apperrors "repair-office/pkg/errors"
)

type fakeRegistrar struct {
	existing map[string]bool
	fail     error
	calls    []string
}

func (f *fakeRegistrar) Register(ctx context.Context, payload dto.RegisterMemberDTO) (*dto.MemberDTO, error) {
	f.calls = append(f.calls, payload.Email)
	if f.fail != nil {
		return nil, f.fail
	}
	if f.existing[payload.Email] {
		return nil, apperrors.ErrUserExists
	}
	f.existing[payload.Email] = true
	return &dto.MemberDTO{ID: int64(len(f.existing)), Email: payload.Email}, nil
}

func TestSeedMembers_SkipsExisting(t *testing.T) {
	reg := &fakeRegistrar{existing: map[string]bool{"owner@shop.local": true}}
	members := []dto.RegisterMemberDTO{
		{Email: "owner@shop.local", Password: "secret1", FName: "Owner", LName: "Shop"},
		{Email: "tech@shop.local", Password: "secret2", FName: "Tech", LName: "Shop"},
	}

	created, err := SeedMembers(context.Background(), reg, members, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, []string{"owner@shop.local", "tech@shop.local"}, reg.calls)

	created, err = SeedMembers(context.Background(), reg, members, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestSeedMembers_StopsOnError(t *testing.T) {
	boom := errors.New("connection refused")
	reg := &fakeRegistrar{existing: map[string]bool{}, fail: boom}

	created, err := SeedMembers(context.Background(), reg, []dto.RegisterMemberDTO{
		{Email: "a@shop.local"}, {Email: "b@shop.local"},
	}, zap.NewNop())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, created)
	assert.Len(t, reg.calls, 1)
}
