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

const sentRepairTable = "sent_repairs"

type SentRepairRepositoryInterface interface {
	GetSentRepairs(ctx context.Context, opts types.ListOptions) (types.ListResult[entities.SentRepair], error)
	FindSentRepair(ctx context.Context, id string) (*entities.SentRepair, error)
	CreateSentRepair(ctx context.Context, tx pgx.Tx, s entities.SentRepair) error
	UpdateSentRepair(ctx context.Context, s entities.SentRepair) error
	DeleteSentRepair(ctx context.Context, id string) error
}

type SentRepairRepository struct {
	storage Querier
	logger  *zap.Logger
}

func NewSentRepairRepository(storage Querier, logger *zap.Logger) SentRepairRepositoryInterface {
	return &SentRepairRepository{storage: storage, logger: logger}
}

func scanSentRepair(row pgx.Row) (entities.SentRepair, error) {
	var s entities.SentRepair
	err := row.Scan(
		&s.CaseSID, &s.ToMechanic, &s.OrderNo, &s.CusName,
		&s.DateOfSent, &s.Type, &s.Brand, &s.Model, &s.SN,
		&s.BrokenSymptom, &s.Equipment, &s.DateOfReceived, &s.Recipient,
		&s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return s, apperrors.ErrNotFound
	}
	if err != nil {
		return s, fmt.Errorf("scan sent repair: %w", err)
	}
	return s, nil
}

func (r *SentRepairRepository) GetSentRepairs(ctx context.Context, opts types.ListOptions) (types.ListResult[entities.SentRepair], error) {
	return listRows(ctx, r.storage, SentRepairListSpec, opts, scanSentRepair)
}

func (r *SentRepairRepository) FindSentRepair(ctx context.Context, id string) (*entities.SentRepair, error) {
	query, args, err := psql.Select(sentRepairColumns...).
		From(sentRepairTable).
		Where(sq.Eq{"case_s_id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	s, err := scanSentRepair(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func sentRepairValues(s entities.SentRepair) map[string]interface{} {
	return map[string]interface{}{
		"case_s_to_mechanic": s.ToMechanic,
		"case_s_order_no":    s.OrderNo,
		"case_s_cus_name":    s.CusName,
		"date_s_of_sent":     s.DateOfSent,
		"case_s_type":        s.Type,
		"case_s_brand":       s.Brand,
		"case_s_model":       s.Model,
		"case_s_sn":          s.SN,
		"broken_symptom":     s.BrokenSymptom,
		"case_s_equipment":   s.Equipment,
		"date_of_received":   s.DateOfReceived,
		"case_s_recipient":   s.Recipient,
	}
}

func (r *SentRepairRepository) CreateSentRepair(ctx context.Context, tx pgx.Tx, s entities.SentRepair) error {
	values := sentRepairValues(s)
	values["case_s_id"] = s.CaseSID

	query, args, err := psql.Insert(sentRepairTable).SetMap(values).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sent repair %s: %w", s.CaseSID, err)
	}
	return nil
}

func (r *SentRepairRepository) UpdateSentRepair(ctx context.Context, s entities.SentRepair) error {
	query, args, err := psql.Update(sentRepairTable).
		SetMap(sentRepairValues(s)).
		Where(sq.Eq{"case_s_id": s.CaseSID}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update sent repair %s: %w", s.CaseSID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *SentRepairRepository) DeleteSentRepair(ctx context.Context, id string) error {
	query, args, err := psql.Delete(sentRepairTable).Where(sq.Eq{"case_s_id": id}).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete sent repair %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
