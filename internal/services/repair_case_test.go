package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repair-office/internal/dto"
	"repair-office/internal/entities"
	"repair-office/internal/repositories"
	apperrors "repair-office/pkg/errors"
)

func newRepairCaseService(repo *fakeRepairRepo, cache repositories.CacheRepositoryInterface, renderer *fakeRenderer) *RepairCaseService {
	return &RepairCaseService{
		ids:        &fakeIDs{},
		repo:       repo,
		txManager:  &fakeTx{},
		cache:      cache,
		renderer:   renderer,
		optionsTTL: time.Minute,
		logger:     zap.NewNop(),
	}
}

func TestRepairCaseService_Create(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepairRepo()
	cache := repositories.NewMemoryCacheRepository(nil)
	svc := newRepairCaseService(repo, cache, &fakeRenderer{})

	require.NoError(t, cache.Set(ctx, cacheKeyDashboardStats, "stale", time.Hour))
	require.NoError(t, cache.Set(ctx, cacheKeyRepairFilterOptions, "stale", time.Hour))

	created, err := svc.CreateRepairCase(ctx, dto.CreateRepairCaseDTO{
		CusFirstName: "สมชาย",
		CaseType:     "ซ่อมโน็ตบุ๊ค",
		DatePickUp:   null.StringFrom("2024-06-02"),
	})
	require.NoError(t, err)
	assert.Equal(t, "NB-001", created.CaseID)

	stored := repo.cases["NB-001"]
	assert.Equal(t, entities.RepairStatusReceived, stored.CaseStatus)
	require.NotNil(t, stored.DatePickUp)
	assert.Equal(t, "2024-06-02", stored.DatePickUp.Format("2006-01-02"))
	assert.Nil(t, stored.DateComplete)

	_, err = cache.Get(ctx, cacheKeyDashboardStats)
	assert.ErrorIs(t, err, repositories.ErrCacheMiss)
	_, err = cache.Get(ctx, cacheKeyRepairFilterOptions)
	assert.ErrorIs(t, err, repositories.ErrCacheMiss)

	created, err = svc.CreateRepairCase(ctx, dto.CreateRepairCaseDTO{CusFirstName: "x", CaseType: "อื่นๆ", CaseStatus: entities.RepairStatusRepairing})
	require.NoError(t, err)
	assert.Equal(t, "CT-001", created.CaseID)
	assert.Equal(t, entities.RepairStatusRepairing, repo.cases["CT-001"].CaseStatus)
}

func TestRepairCaseService_CreateRetriesDuplicateID(t *testing.T) {
	repo := newFakeRepairRepo()
	repo.conflicts = 2
	svc := newRepairCaseService(repo, repositories.NewMemoryCacheRepository(nil), &fakeRenderer{})

	created, err := svc.CreateRepairCase(context.Background(), dto.CreateRepairCaseDTO{CusFirstName: "a", CaseType: "ซ่อมคอมพิวเตอร์"})
	require.NoError(t, err)
	assert.Equal(t, "PC-003", created.CaseID)
	assert.Equal(t, 3, svc.txManager.(*fakeTx).calls)
}

func TestRepairCaseService_RejectsBadDate(t *testing.T) {
	svc := newRepairCaseService(newFakeRepairRepo(), repositories.NewMemoryCacheRepository(nil), &fakeRenderer{})

	_, err := svc.CreateRepairCase(context.Background(), dto.CreateRepairCaseDTO{
		CusFirstName: "a",
		DateComplete: null.StringFrom("02/06/2024"),
	})
	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Message, "dateComplete")
}

func TestRepairCaseService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepairRepo()
	repo.cases["PC-001"] = entities.RepairCase{CaseID: "PC-001", CaseStatus: entities.RepairStatusReceived}
	svc := newRepairCaseService(repo, repositories.NewMemoryCacheRepository(nil), &fakeRenderer{})

	err := svc.UpdateRepairCase(ctx, dto.UpdateRepairCaseDTO{
		CaseID:              "PC-001",
		CreateRepairCaseDTO: dto.CreateRepairCaseDTO{CusFirstName: "b", DateComplete: null.StringFrom("2024-07-01")},
	})
	require.NoError(t, err)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, "b", repo.updated[0].CusFirstName)
	assert.Empty(t, repo.updated[0].CaseStatus, "blank status is left to the repository to keep")

	err = svc.UpdateRepairCase(ctx, dto.UpdateRepairCaseDTO{CaseID: "PC-404"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, svc.DeleteRepairCase(ctx, "PC-001"))
	assert.ErrorIs(t, svc.DeleteRepairCase(ctx, "PC-001"), apperrors.ErrNotFound)
}

func TestRepairCaseService_FilterOptionsCached(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepairRepo()
	repo.options = entities.RepairFilterOptions{Statuses: []string{entities.RepairStatusReceived}, Types: []string{"ซ่อมคอมพิวเตอร์"}}
	svc := newRepairCaseService(repo, repositories.NewMemoryCacheRepository(nil), &fakeRenderer{})

	first, err := svc.GetFilterOptions(ctx)
	require.NoError(t, err)
	second, err := svc.GetFilterOptions(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.optionsCalls)

	_, err = svc.CreateRepairCase(ctx, dto.CreateRepairCaseDTO{CusFirstName: "c"})
	require.NoError(t, err)
	_, err = svc.GetFilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.optionsCalls)
}

func TestRepairCaseService_Print(t *testing.T) {
	picked := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	repo := newFakeRepairRepo()
	repo.cases["PR-007"] = entities.RepairCase{
		CaseID:       "PR-007",
		CusFirstName: "สมหญิง",
		CusLastName:  "ใจดี",
		CaseType:     "ซ่อมปริ้นเตอร์",
		DatePickUp:   &picked,
	}
	renderer := &fakeRenderer{}
	svc := newRepairCaseService(repo, repositories.NewMemoryCacheRepository(nil), renderer)

	out, err := svc.PrintRepairCase(context.Background(), "PR-007")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(out))
	assert.Contains(t, renderer.html, "PR-007")
	assert.Contains(t, renderer.html, "สมหญิง ใจดี")
	assert.Contains(t, renderer.html, "2 มิ.ย. 2567")

	_, err = svc.PrintRepairCase(context.Background(), "PR-404")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestNewJobSheetView(t *testing.T) {
	v := newJobSheetView(entities.RepairCase{CaseType: "ซ่อมคอมพิวเตอร์"})
	assert.True(t, v.Computer)
	assert.False(t, v.Other)
	assert.Equal(t, blankDate, v.PickUpDate)
	assert.Equal(t, blankDate, v.ReceivedDate)

	v = newJobSheetView(entities.RepairCase{CaseType: "ลงโปรแกรม/OS"})
	assert.True(t, v.Other)
}
