package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"repair-office/internal/entities"
	apperrors "repair-office/pkg/errors"
	"repair-office/pkg/types"
)

const (
	repairCaseTable = "repair_cases"
	exportRowLimit  = 10000
)

type RepairCaseRepositoryInterface interface {
	GetRepairCases(ctx context.Context, opts types.ListOptions) (types.ListResult[entities.RepairCase], error)
	ExportRepairCases(ctx context.Context, opts types.ListOptions) ([]entities.RepairCase, error)
	FindRepairCase(ctx context.Context, id string) (*entities.RepairCase, error)
	CreateRepairCase(ctx context.Context, tx pgx.Tx, c entities.RepairCase) error
	UpdateRepairCase(ctx context.Context, c entities.RepairCase) error
	DeleteRepairCase(ctx context.Context, id string) error
	LinkSentRepair(ctx context.Context, q Querier, caseID, sentRepairID string) (bool, error)
	GetFilterOptions(ctx context.Context) (*entities.RepairFilterOptions, error)
}

type RepairCaseRepository struct {
	storage Querier
	logger  *zap.Logger
}

func NewRepairCaseRepository(storage Querier, logger *zap.Logger) RepairCaseRepositoryInterface {
	return &RepairCaseRepository{storage: storage, logger: logger}
}

func scanRepairCase(row pgx.Row) (entities.RepairCase, error) {
	var c entities.RepairCase
	err := row.Scan(
		&c.CaseID, &c.CusFirstName, &c.CusLastName, &c.CusPhone, &c.CaseInstitution,
		&c.BrokenSymptom, &c.CaseType, &c.CaseStatus, &c.CaseBrand, &c.CaseModel,
		&c.CaseSN, &c.CaseDurableArticles, &c.CaseEquipment,
		&c.DatePickUp, &c.DateBeforePickUp, &c.DateComplete, &c.DateDelivered,
		&c.RefSentRepairID, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, apperrors.ErrNotFound
	}
	if err != nil {
		return c, fmt.Errorf("scan repair case: %w", err)
	}
	return c, nil
}

func (r *RepairCaseRepository) GetRepairCases(ctx context.Context, opts types.ListOptions) (types.ListResult[entities.RepairCase], error) {
	return listRows(ctx, r.storage, RepairCaseListSpec, opts, scanRepairCase)
}

func (r *RepairCaseRepository) ExportRepairCases(ctx context.Context, opts types.ListOptions) ([]entities.RepairCase, error) {
	return exportRows(ctx, r.storage, RepairCaseListSpec, opts, exportRowLimit, scanRepairCase)
}

func (r *RepairCaseRepository) FindRepairCase(ctx context.Context, id string) (*entities.RepairCase, error) {
	query, args, err := psql.Select(repairCaseColumns...).
		From(repairCaseTable).
		Where(sq.Eq{"case_id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	c, err := scanRepairCase(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *RepairCaseRepository) CreateRepairCase(ctx context.Context, tx pgx.Tx, c entities.RepairCase) error {
	query, args, err := psql.Insert(repairCaseTable).
		Columns(
			"case_id", "cus_first_name", "cus_last_name", "cus_phone", "case_institution",
			"broken_symptom", "case_type", "case_status", "case_brand", "case_model",
			"case_sn", "case_durable_articles", "case_equipment",
			"date_pick_up", "date_before_pick_up", "date_complete", "date_delivered",
		).
		Values(
			c.CaseID, c.CusFirstName, c.CusLastName, c.CusPhone, c.CaseInstitution,
			c.BrokenSymptom, c.CaseType, c.CaseStatus, c.CaseBrand, c.CaseModel,
			c.CaseSN, c.CaseDurableArticles, c.CaseEquipment,
			c.DatePickUp, c.DateBeforePickUp, c.DateComplete, c.DateDelivered,
		).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert repair case %s: %w", c.CaseID, err)
	}
	return nil
}

// UpdateRepairCase overwrites every editable field. A blank status keeps the
// stored one.
func (r *RepairCaseRepository) UpdateRepairCase(ctx context.Context, c entities.RepairCase) error {
	query, args, err := psql.Update(repairCaseTable).
		SetMap(map[string]interface{}{
			"cus_first_name":        c.CusFirstName,
			"cus_last_name":         c.CusLastName,
			"cus_phone":             c.CusPhone,
			"case_institution":      c.CaseInstitution,
			"broken_symptom":        c.BrokenSymptom,
			"case_type":             c.CaseType,
			"case_status":           sq.Expr("COALESCE(NULLIF(?, ''), case_status)", c.CaseStatus),
			"case_brand":            c.CaseBrand,
			"case_model":            c.CaseModel,
			"case_sn":               c.CaseSN,
			"case_durable_articles": c.CaseDurableArticles,
			"case_equipment":        c.CaseEquipment,
			"date_pick_up":          c.DatePickUp,
			"date_before_pick_up":   c.DateBeforePickUp,
			"date_complete":         c.DateComplete,
			"date_delivered":        c.DateDelivered,
		}).
		Where(sq.Eq{"case_id": c.CaseID}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update repair case %s: %w", c.CaseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RepairCaseRepository) DeleteRepairCase(ctx context.Context, id string) error {
	query, args, err := psql.Delete(repairCaseTable).Where(sq.Eq{"case_id": id}).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete repair case %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LinkSentRepair points a case at its sent repair and marks it as sent out,
// whatever its previous status. It reports false when no case has caseID.
func (r *RepairCaseRepository) LinkSentRepair(ctx context.Context, q Querier, caseID, sentRepairID string) (bool, error) {
	query, args, err := psql.Update(repairCaseTable).
		Set("ref_sent_repair_id", sentRepairID).
		Set("case_status", entities.RepairStatusSentOut).
		Where(sq.Eq{"case_id": caseID}).
		ToSql()
	if err != nil {
		return false, err
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("link repair case %s to %s: %w", caseID, sentRepairID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetFilterOptions lists the distinct non-empty statuses and types in use.
func (r *RepairCaseRepository) GetFilterOptions(ctx context.Context) (*entities.RepairFilterOptions, error) {
	statuses, err := r.distinct(ctx, "case_status")
	if err != nil {
		return nil, err
	}
	caseTypes, err := r.distinct(ctx, "case_type")
	if err != nil {
		return nil, err
	}
	return &entities.RepairFilterOptions{Statuses: statuses, Types: caseTypes}, nil
}

func (r *RepairCaseRepository) distinct(ctx context.Context, column string) ([]string, error) {
	query, args, err := psql.Select("DISTINCT " + column).
		From(repairCaseTable).
		Where(sq.And{sq.NotEq{column: nil}, sq.NotEq{column: ""}}).
		OrderBy(column).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	return values, nil
}
