package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repair-office/internal/entities"
	"repair-office/pkg/types"
)

func TestDashboard_RecentActivitiesBindsTypes(t *testing.T) {
	q := &fakeQuerier{}
	repo := NewDashboardRepository(q, zap.NewNop())

	activities, err := repo.GetRecentActivities(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, activities)

	require.Len(t, q.args, 1)
	assert.Equal(t, []any{
		types.ActivityRepairCase, types.ActivitySentRepair, types.ActivityProject,
		entities.SentRepairStatusOut, entities.SentRepairStatusReturned, uint64(7),
	}, q.args[0])

	sql := q.queries[0]
	for _, literal := range []string{"'caseRepair'", "'sentRepair'", "'caseProject'"} {
		assert.NotContains(t, sql, literal)
	}
	assert.Contains(t, sql, "LIMIT $6")
}
