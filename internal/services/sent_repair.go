package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"repair-office/internal/dto"
	"repair-office/internal/entities"
	"repair-office/internal/repositories"
	"repair-office/pkg/types"
	"repair-office/pkg/utils"
)

type SentRepairServiceInterface interface {
	GetSentRepairs(ctx context.Context, opts types.ListOptions) (types.ListResult[dto.SentRepairDTO], error)
	FindSentRepair(ctx context.Context, id string) (*dto.SentRepairDTO, error)
	CreateSentRepair(ctx context.Context, payload dto.CreateSentRepairDTO) (*dto.CreatedSentRepairDTO, error)
	UpdateSentRepair(ctx context.Context, payload dto.UpdateSentRepairDTO) error
	DeleteSentRepair(ctx context.Context, id string) error
}

type SentRepairService struct {
	ids        repositories.IDAllocator
	repo       repositories.SentRepairRepositoryInterface
	repairRepo repositories.RepairCaseRepositoryInterface
	txManager  repositories.TxManagerInterface
	cache      repositories.CacheRepositoryInterface
	logger     *zap.Logger
}

func NewSentRepairService(
	repo repositories.SentRepairRepositoryInterface,
	repairRepo repositories.RepairCaseRepositoryInterface,
	txManager repositories.TxManagerInterface,
	cache repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) SentRepairServiceInterface {
	return &SentRepairService{
		ids:        repositories.SentRepairSequence,
		repo:       repo,
		repairRepo: repairRepo,
		txManager:  txManager,
		cache:      cache,
		logger:     logger,
	}
}

func (s *SentRepairService) GetSentRepairs(ctx context.Context, opts types.ListOptions) (types.ListResult[dto.SentRepairDTO], error) {
	res, err := s.repo.GetSentRepairs(ctx, opts)
	if err != nil {
		return types.ListResult[dto.SentRepairDTO]{}, err
	}
	return mapList(res, sentRepairToDTO), nil
}

func (s *SentRepairService) FindSentRepair(ctx context.Context, id string) (*dto.SentRepairDTO, error) {
	sr, err := s.repo.FindSentRepair(ctx, id)
	if err != nil {
		return nil, err
	}
	res := sentRepairToDTO(*sr)
	return &res, nil
}

// CreateSentRepair inserts the record and, when refCaseId is set, marks that
// repair case as sent out in the same transaction. An unknown refCaseId is
// logged and does not block the insert.
func (s *SentRepairService) CreateSentRepair(ctx context.Context, payload dto.CreateSentRepairDTO) (*dto.CreatedSentRepairDTO, error) {
	sr, err := sentRepairFromDTO(payload.SentRepairFieldsDTO)
	if err != nil {
		return nil, err
	}

	var linked *bool
	err = repositories.RetryOnConflict(ctx, s.txManager, s.logger, func(tx pgx.Tx) error {
		linked = nil
		id, err := s.ids.Next(ctx, tx, entities.SentRepairPrefix)
		if err != nil {
			return err
		}
		sr.CaseSID = id
		if err := s.repo.CreateSentRepair(ctx, tx, sr); err != nil {
			return err
		}

		if payload.RefCaseID == "" {
			return nil
		}
		ok, err := s.repairRepo.LinkSentRepair(ctx, tx, payload.RefCaseID, id)
		if err != nil {
			return err
		}
		linked = &ok
		return nil
	})
	if err != nil {
		s.logger.Error("create sent repair failed", zap.String("refCaseId", payload.RefCaseID), zap.Error(err))
		return nil, err
	}

	switch {
	case linked == nil:
		s.logger.Debug("sent repair created without a repair case link", zap.String("caseSId", sr.CaseSID))
	case !*linked:
		s.logger.Warn("repair case to link not found",
			zap.String("caseSId", sr.CaseSID),
			zap.String("refCaseId", payload.RefCaseID),
		)
	default:
		s.logger.Info("repair case marked as sent out",
			zap.String("caseSId", sr.CaseSID),
			zap.String("refCaseId", payload.RefCaseID),
		)
	}

	keys := dashboardKeys
	if linked != nil && *linked {
		keys = repairCaseKeys
	}
	invalidate(ctx, s.cache, s.logger, keys...)

	return &dto.CreatedSentRepairDTO{CaseSID: sr.CaseSID, Linked: linked}, nil
}

func (s *SentRepairService) UpdateSentRepair(ctx context.Context, payload dto.UpdateSentRepairDTO) error {
	sr, err := sentRepairFromDTO(payload.SentRepairFieldsDTO)
	if err != nil {
		return err
	}
	sr.CaseSID = payload.CaseSID

	if err := s.repo.UpdateSentRepair(ctx, sr); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.logger, dashboardKeys...)
	return nil
}

func (s *SentRepairService) DeleteSentRepair(ctx context.Context, id string) error {
	if err := s.repo.DeleteSentRepair(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.logger, dashboardKeys...)
	s.logger.Info("sent repair deleted", zap.String("caseSId", id))
	return nil
}

func sentRepairFromDTO(d dto.SentRepairFieldsDTO) (entities.SentRepair, error) {
	dates, err := parseDates(map[string]null.String{
		"DateSOfSent":    d.DateOfSent,
		"dateOfReceived": d.DateOfReceived,
	})
	if err != nil {
		return entities.SentRepair{}, err
	}

	return entities.SentRepair{
		ToMechanic:     d.ToMechanic,
		OrderNo:        d.OrderNo,
		CusName:        d.CusName,
		DateOfSent:     dates["DateSOfSent"],
		Type:           d.Type,
		Brand:          d.Brand,
		Model:          d.Model,
		SN:             d.SN,
		BrokenSymptom:  d.BrokenSymptom,
		Equipment:      d.Equipment,
		DateOfReceived: dates["dateOfReceived"],
		Recipient:      d.Recipient,
	}, nil
}

func sentRepairToDTO(sr entities.SentRepair) dto.SentRepairDTO {
	return dto.SentRepairDTO{
		CaseSID:        sr.CaseSID,
		ToMechanic:     sr.ToMechanic,
		OrderNo:        sr.OrderNo,
		CusName:        sr.CusName,
		DateOfSent:     utils.FormatDate(sr.DateOfSent),
		Type:           sr.Type,
		Brand:          sr.Brand,
		Model:          sr.Model,
		SN:             sr.SN,
		BrokenSymptom:  sr.BrokenSymptom,
		Equipment:      sr.Equipment,
		DateOfReceived: utils.FormatDate(sr.DateOfReceived),
		Recipient:      sr.Recipient,
		Status:         sr.Status(),
		CreatedAt:      sr.CreatedAt,
	}
}
