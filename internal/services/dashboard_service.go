package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"repair-office/internal/repositories"
	"repair-office/pkg/types"
)

const (
	defaultActivityLimit = 10
	maxActivityLimit     = 100
)

type DashboardServiceInterface interface {
	GetStatistics(ctx context.Context) (*types.DashboardStatistics, error)
	GetRecentActivities(ctx context.Context, limit uint64) ([]types.RecentActivity, error)
}

type DashboardService struct {
	repo        repositories.DashboardRepositoryInterface
	cache       repositories.CacheRepositoryInterface
	statsTTL    time.Duration
	activityTTL time.Duration
	logger      *zap.Logger
}

func NewDashboardService(
	repo repositories.DashboardRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	statsTTL, activityTTL time.Duration,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{
		repo:        repo,
		cache:       cache,
		statsTTL:    statsTTL,
		activityTTL: activityTTL,
		logger:      logger,
	}
}

func (s *DashboardService) GetStatistics(ctx context.Context) (*types.DashboardStatistics, error) {
	stats, err := repositories.Remember(ctx, s.cache, s.logger, cacheKeyDashboardStats, s.statsTTL, s.loadStatistics)
	if err != nil {
		s.logger.Error("dashboard statistics failed", zap.Error(err))
		return nil, err
	}
	return &stats, nil
}

func (s *DashboardService) loadStatistics(ctx context.Context) (types.DashboardStatistics, error) {
	var stats types.DashboardStatistics

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.CaseRepair, err = s.repo.GetRepairStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.SentRepair, err = s.repo.GetSentRepairStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.CaseProject, err = s.repo.GetProjectStats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return types.DashboardStatistics{}, err
	}

	stats.Summary = types.DashboardSummary{
		TotalCases: stats.CaseRepair.Total + stats.SentRepair.Total + stats.CaseProject.Total,
		Completed:  stats.CaseRepair.RepairComplete + stats.SentRepair.Received + stats.CaseProject.Completed,
	}
	return stats, nil
}

// GetRecentActivities serves every limit from one cached top-100 list.
// Zero means the default; anything above the maximum is clamped.
func (s *DashboardService) GetRecentActivities(ctx context.Context, limit uint64) ([]types.RecentActivity, error) {
	if limit == 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	all, err := repositories.Remember(ctx, s.cache, s.logger, cacheKeyRecentActivities, s.activityTTL,
		func(ctx context.Context) ([]types.RecentActivity, error) {
			return s.repo.GetRecentActivities(ctx, maxActivityLimit)
		})
	if err != nil {
		s.logger.Error("recent activities failed", zap.Error(err))
		return nil, err
	}

	if uint64(len(all)) > limit {
		all = all[:limit]
	}
	if all == nil {
		all = []types.RecentActivity{}
	}
	return all, nil
}
