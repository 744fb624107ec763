package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"repair-office/internal/entities"
	"repair-office/pkg/types"
)

type DashboardRepositoryInterface interface {
	GetRepairStats(ctx context.Context) (types.RepairStats, error)
	GetSentRepairStats(ctx context.Context) (types.SentRepairStats, error)
	GetProjectStats(ctx context.Context) (types.ProjectStats, error)
	GetRecentActivities(ctx context.Context, limit uint64) ([]types.RecentActivity, error)
}

type DashboardRepository struct {
	storage Querier
	logger  *zap.Logger
}

func NewDashboardRepository(storage Querier, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

func countWhen(cond string, args ...interface{}) sq.Sqlizer {
	return sq.Expr("COUNT(*) FILTER (WHERE "+cond+")", args...)
}

func (r *DashboardRepository) GetRepairStats(ctx context.Context) (types.RepairStats, error) {
	var stats types.RepairStats
	query, args, err := psql.Select("COUNT(*)").
		Column(countWhen("case_status = ?", entities.RepairStatusReceived)).
		Column(countWhen("case_status = ?", entities.RepairStatusRepairing)).
		Column(countWhen("case_status = ?", entities.RepairStatusComplete)).
		From(repairCaseTable).
		ToSql()
	if err != nil {
		return stats, err
	}

	err = r.storage.QueryRow(ctx, query, args...).Scan(&stats.Total, &stats.Received, &stats.Repairing, &stats.RepairComplete)
	if err != nil {
		return stats, fmt.Errorf("repair stats: %w", err)
	}
	return stats, nil
}

func (r *DashboardRepository) GetSentRepairStats(ctx context.Context) (types.SentRepairStats, error) {
	var stats types.SentRepairStats
	query, args, err := psql.Select("COUNT(*)").
		Column(countWhen("date_of_received IS NULL")).
		Column(countWhen("date_of_received IS NOT NULL")).
		From(sentRepairTable).
		ToSql()
	if err != nil {
		return stats, err
	}

	if err := r.storage.QueryRow(ctx, query, args...).Scan(&stats.Total, &stats.Sending, &stats.Received); err != nil {
		return stats, fmt.Errorf("sent repair stats: %w", err)
	}
	return stats, nil
}

func (r *DashboardRepository) GetProjectStats(ctx context.Context) (types.ProjectStats, error) {
	var stats types.ProjectStats
	query, args, err := psql.Select("COUNT(*)").
		Column(countWhen("p_status = ?", entities.ProjectStatusWaiting)).
		Column(countWhen("p_status = ?", entities.ProjectStatusInProgress)).
		Column(countWhen("p_status = ?", entities.ProjectStatusCompleted)).
		From(projectTable).
		ToSql()
	if err != nil {
		return stats, err
	}

	if err := r.storage.QueryRow(ctx, query, args...).Scan(&stats.Total, &stats.Waiting, &stats.InProgress, &stats.Completed); err != nil {
		return stats, fmt.Errorf("project stats: %w", err)
	}
	return stats, nil
}

const recentActivitiesQuery = `
SELECT type, id, title, description, status, created_by, created_at FROM (
	SELECT $1::text AS type, case_id AS id, 'งานรับซ่อม #' || case_id AS title,
		concat_ws(' ', NULLIF(case_brand, ''), NULLIF(case_model, '')) AS description,
		case_status AS status, concat_ws(' ', cus_first_name, cus_last_name) AS created_by,
		created_at
	FROM repair_cases
	UNION ALL
	SELECT $2::text, case_s_id, 'ส่งซ่อม: ' || case_s_to_mechanic,
		broken_symptom,
		CASE WHEN date_of_received IS NULL THEN $4::text ELSE $5::text END,
		case_s_cus_name, COALESCE(date_s_of_sent::timestamptz, created_at)
	FROM sent_repairs
	UNION ALL
	SELECT $3::text, p_id, 'งานติดตั้ง #' || p_id,
		p_detail, p_status, p_address, COALESCE(date_create::timestamptz, created_at)
	FROM projects
) AS activities
ORDER BY created_at DESC NULLS LAST, id DESC
LIMIT $6`

// GetRecentActivities merges the newest rows of the three case tables.
func (r *DashboardRepository) GetRecentActivities(ctx context.Context, limit uint64) ([]types.RecentActivity, error) {
	rows, err := r.storage.Query(ctx, recentActivitiesQuery,
		types.ActivityRepairCase, types.ActivitySentRepair, types.ActivityProject,
		entities.SentRepairStatusOut, entities.SentRepairStatusReturned, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activities: %w", err)
	}

	activities, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.RecentActivity, error) {
		var a types.RecentActivity
		err := row.Scan(&a.Type, &a.ID, &a.Title, &a.Description, &a.Status, &a.CreatedBy, &a.CreatedAt)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("recent activities: %w", err)
	}
	return activities, nil
}
