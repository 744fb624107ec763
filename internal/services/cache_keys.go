package services

import (
	"context"

	"go.uber.org/zap"

	"repair-office/internal/repositories"
	"repair-office/pkg/types"
)

const (
	cacheKeyDashboardStats      = "dashboard:statistics"
	cacheKeyRecentActivities    = "dashboard:recent-activities"
	cacheKeyRepairFilterOptions = "repair:filter-options"
	loginAttemptsKeyPrefix      = "member:login-attempts:"
	lockoutKeyPrefix            = "member:lockout:"
)

// dashboardKeys go stale on any write to repairs, sent repairs or projects.
var dashboardKeys = []string{cacheKeyDashboardStats, cacheKeyRecentActivities}

var repairCaseKeys = []string{cacheKeyDashboardStats, cacheKeyRecentActivities, cacheKeyRepairFilterOptions}

// invalidate drops keys after a write. Failures are logged only; the entries
// still expire on their TTL.
func invalidate(ctx context.Context, cache repositories.CacheRepositoryInterface, logger *zap.Logger, keys ...string) {
	if err := cache.Del(ctx, keys...); err != nil {
		logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func mapList[E, D any](in types.ListResult[E], f func(E) D) types.ListResult[D] {
	out := types.ListResult[D]{
		Rows:    make([]D, 0, len(in.Rows)),
		Total:   in.Total,
		HasMore: in.HasMore,
		Page:    in.Page,
		Limit:   in.Limit,
	}
	for _, e := range in.Rows {
		out.Rows = append(out.Rows, f(e))
	}
	return out
}
