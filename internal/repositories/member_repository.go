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
)

const memberTable = "members"

type MemberRepositoryInterface interface {
	CreateMember(ctx context.Context, m entities.Member) (int64, error)
	FindByEmail(ctx context.Context, email string) (*entities.Member, error)
	FindByID(ctx context.Context, id int64) (*entities.Member, error)
}

type MemberRepository struct {
	storage Querier
	logger  *zap.Logger
}

func NewMemberRepository(storage Querier, logger *zap.Logger) MemberRepositoryInterface {
	return &MemberRepository{storage: storage, logger: logger}
}

// CreateMember returns ErrUserExists when the email is taken.
func (r *MemberRepository) CreateMember(ctx context.Context, m entities.Member) (int64, error) {
	query, args, err := psql.Insert(memberTable).
		Columns("email", "password", "fname", "lname").
		Values(m.Email, m.Password, m.FName, m.LName).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if IsUniqueViolation(err) {
			return 0, apperrors.ErrUserExists
		}
		return 0, fmt.Errorf("insert member: %w", err)
	}
	return id, nil
}

func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*entities.Member, error) {
	return r.findOne(ctx, sq.Eq{"lower(email)": email})
}

func (r *MemberRepository) FindByID(ctx context.Context, id int64) (*entities.Member, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *MemberRepository) findOne(ctx context.Context, where sq.Eq) (*entities.Member, error) {
	query, args, err := psql.Select("id", "email", "password", "fname", "lname", "created_at").
		From(memberTable).
		Where(where).
		ToSql()
	if err != nil {
		return nil, err
	}

	var m entities.Member
	err = r.storage.QueryRow(ctx, query, args...).Scan(&m.ID, &m.Email, &m.Password, &m.FName, &m.LName, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find member: %w", err)
	}
	return &m, nil
}
