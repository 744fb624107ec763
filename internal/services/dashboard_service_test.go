package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repair-office/internal/repositories"
	"repair-office/pkg/types"
)

func TestDashboardService_Statistics(t *testing.T) {
	ctx := context.Background()
	repo := &fakeDashboardRepo{}
	cache := repositories.NewMemoryCacheRepository(nil)
	svc := NewDashboardService(repo, cache, time.Minute, time.Minute, zap.NewNop())

	stats, err := svc.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(19), stats.Summary.TotalCases)
	assert.Equal(t, int64(8), stats.Summary.Completed)
	assert.Equal(t, int64(2), stats.SentRepair.Sending)
	assert.Equal(t, int64(1), stats.CaseProject.InProgress)

	_, err = svc.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.statsCalls)

	invalidate(ctx, cache, zap.NewNop(), dashboardKeys...)
	_, err = svc.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.statsCalls)
}

func TestDashboardService_StatisticsErrorNotCached(t *testing.T) {
	ctx := context.Background()
	repo := &fakeDashboardRepo{fail: errors.New("connection refused")}
	cache := repositories.NewMemoryCacheRepository(nil)
	svc := NewDashboardService(repo, cache, time.Minute, time.Minute, zap.NewNop())

	_, err := svc.GetStatistics(ctx)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestDashboardService_RecentActivities(t *testing.T) {
	ctx := context.Background()
	repo := &fakeDashboardRepo{}
	for i := 0; i < 120; i++ {
		repo.activities = append(repo.activities, types.RecentActivity{Type: types.ActivityRepairCase, ID: fmt.Sprintf("PC-%03d", 120-i)})
	}
	svc := NewDashboardService(repo, repositories.NewMemoryCacheRepository(nil), time.Minute, time.Minute, zap.NewNop())

	tests := []struct {
		limit uint64
		want  int
	}{
		{0, 10},
		{5, 5},
		{100, 100},
		{500, 100},
	}
	for _, tt := range tests {
		got, err := svc.GetRecentActivities(ctx, tt.limit)
		require.NoError(t, err)
		assert.Len(t, got, tt.want, "limit %d", tt.limit)
		assert.Equal(t, "PC-120", got[0].ID)
	}

	assert.Equal(t, []uint64{100}, repo.limits)
}

func TestDashboardService_RecentActivitiesEmpty(t *testing.T) {
	svc := NewDashboardService(&fakeDashboardRepo{}, repositories.NewMemoryCacheRepository(nil), time.Minute, time.Minute, zap.NewNop())

	got, err := svc.GetRecentActivities(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
