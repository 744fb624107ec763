package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"repair-office/internal/dto"
	"repair-office/internal/entities"
	"repair-office/internal/repositories"
	apperrors "repair-office/pkg/errors"
	"repair-office/pkg/pdf"
	"repair-office/pkg/types"
	"repair-office/pkg/utils"
)

type RepairCaseServiceInterface interface {
	GetRepairCases(ctx context.Context, opts types.ListOptions) (types.ListResult[dto.RepairCaseDTO], error)
	ExportRepairCases(ctx context.Context, opts types.ListOptions) ([]dto.RepairCaseDTO, error)
	FindRepairCase(ctx context.Context, id string) (*dto.RepairCaseDTO, error)
	CreateRepairCase(ctx context.Context, payload dto.CreateRepairCaseDTO) (*dto.CreatedRepairCaseDTO, error)
	UpdateRepairCase(ctx context.Context, payload dto.UpdateRepairCaseDTO) error
	DeleteRepairCase(ctx context.Context, id string) error
	GetFilterOptions(ctx context.Context) (*entities.RepairFilterOptions, error)
	PrintRepairCase(ctx context.Context, id string) ([]byte, error)
}

type RepairCaseService struct {
	ids        repositories.IDAllocator
	repo       repositories.RepairCaseRepositoryInterface
	txManager  repositories.TxManagerInterface
	cache      repositories.CacheRepositoryInterface
	renderer   pdf.Renderer
	optionsTTL time.Duration
	logger     *zap.Logger
}

func NewRepairCaseService(
	repo repositories.RepairCaseRepositoryInterface,
	txManager repositories.TxManagerInterface,
	cache repositories.CacheRepositoryInterface,
	renderer pdf.Renderer,
	optionsTTL time.Duration,
	logger *zap.Logger,
) RepairCaseServiceInterface {
	return &RepairCaseService{
		ids:        repositories.RepairCaseSequence,
		repo:       repo,
		txManager:  txManager,
		cache:      cache,
		renderer:   renderer,
		optionsTTL: optionsTTL,
		logger:     logger,
	}
}

func (s *RepairCaseService) GetRepairCases(ctx context.Context, opts types.ListOptions) (types.ListResult[dto.RepairCaseDTO], error) {
	res, err := s.repo.GetRepairCases(ctx, opts)
	if err != nil {
		return types.ListResult[dto.RepairCaseDTO]{}, err
	}
	return mapList(res, repairCaseToDTO), nil
}

func (s *RepairCaseService) ExportRepairCases(ctx context.Context, opts types.ListOptions) ([]dto.RepairCaseDTO, error) {
	rows, err := s.repo.ExportRepairCases(ctx, opts)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RepairCaseDTO, 0, len(rows))
	for _, c := range rows {
		out = append(out, repairCaseToDTO(c))
	}
	return out, nil
}

func (s *RepairCaseService) FindRepairCase(ctx context.Context, id string) (*dto.RepairCaseDTO, error) {
	c, err := s.repo.FindRepairCase(ctx, id)
	if err != nil {
		return nil, err
	}
	res := repairCaseToDTO(*c)
	return &res, nil
}

func (s *RepairCaseService) CreateRepairCase(ctx context.Context, payload dto.CreateRepairCaseDTO) (*dto.CreatedRepairCaseDTO, error) {
	c, err := repairCaseFromDTO(payload)
	if err != nil {
		return nil, err
	}
	if c.CaseStatus == "" {
		c.CaseStatus = entities.RepairStatusReceived
	}
	prefix := entities.RepairCasePrefix(c.CaseType)

	err = repositories.RetryOnConflict(ctx, s.txManager, s.logger, func(tx pgx.Tx) error {
		id, err := s.ids.Next(ctx, tx, prefix)
		if err != nil {
			return err
		}
		c.CaseID = id
		return s.repo.CreateRepairCase(ctx, tx, c)
	})
	if err != nil {
		s.logger.Error("create repair case failed", zap.String("prefix", prefix), zap.Error(err))
		return nil, err
	}

	invalidate(ctx, s.cache, s.logger, repairCaseKeys...)
	s.logger.Info("repair case created", zap.String("caseId", c.CaseID))
	return &dto.CreatedRepairCaseDTO{CaseID: c.CaseID}, nil
}

func (s *RepairCaseService) UpdateRepairCase(ctx context.Context, payload dto.UpdateRepairCaseDTO) error {
	c, err := repairCaseFromDTO(payload.CreateRepairCaseDTO)
	if err != nil {
		return err
	}
	c.CaseID = payload.CaseID

	if err := s.repo.UpdateRepairCase(ctx, c); err != nil {
		return err
	}

	invalidate(ctx, s.cache, s.logger, repairCaseKeys...)
	return nil
}

func (s *RepairCaseService) DeleteRepairCase(ctx context.Context, id string) error {
	if err := s.repo.DeleteRepairCase(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.logger, repairCaseKeys...)
	s.logger.Info("repair case deleted", zap.String("caseId", id))
	return nil
}

func (s *RepairCaseService) GetFilterOptions(ctx context.Context) (*entities.RepairFilterOptions, error) {
	opts, err := repositories.Remember(ctx, s.cache, s.logger, cacheKeyRepairFilterOptions, s.optionsTTL,
		func(ctx context.Context) (entities.RepairFilterOptions, error) {
			o, err := s.repo.GetFilterOptions(ctx)
			if err != nil {
				return entities.RepairFilterOptions{}, err
			}
			return *o, nil
		})
	if err != nil {
		return nil, err
	}
	return &opts, nil
}

func (s *RepairCaseService) PrintRepairCase(ctx context.Context, id string) ([]byte, error) {
	c, err := s.repo.FindRepairCase(ctx, id)
	if err != nil {
		return nil, err
	}

	html, err := renderJobSheet(*c)
	if err != nil {
		return nil, err
	}

	out, err := s.renderer.RenderHTML(ctx, html)
	if err != nil {
		s.logger.Error("job sheet render failed", zap.String("caseId", id), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func parseDates(fields map[string]null.String) (map[string]*time.Time, error) {
	out := make(map[string]*time.Time, len(fields))
	for name, raw := range fields {
		t, err := utils.ParseNullDate(raw)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("%s: %v", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func repairCaseFromDTO(d dto.CreateRepairCaseDTO) (entities.RepairCase, error) {
	dates, err := parseDates(map[string]null.String{
		"datePickUp":      d.DatePickUp,
		"dateBeforePicUp": d.DateBeforePicUp,
		"dateComplete":    d.DateComplete,
		"dateDelivered":   d.DateDelivered,
	})
	if err != nil {
		return entities.RepairCase{}, err
	}

	return entities.RepairCase{
		CusFirstName:        d.CusFirstName,
		CusLastName:         d.CusLastName,
		CusPhone:            d.CusPhone,
		CaseInstitution:     d.CaseInstitution,
		BrokenSymptom:       d.BrokenSymptom,
		CaseType:            d.CaseType,
		CaseStatus:          d.CaseStatus,
		CaseBrand:           d.CaseBrand,
		CaseModel:           d.CaseModel,
		CaseSN:              d.CaseSN,
		CaseDurableArticles: d.CaseDurableArticles,
		CaseEquipment:       d.CaseEquipment,
		DatePickUp:          dates["datePickUp"],
		DateBeforePickUp:    dates["dateBeforePicUp"],
		DateComplete:        dates["dateComplete"],
		DateDelivered:       dates["dateDelivered"],
	}, nil
}

func repairCaseToDTO(c entities.RepairCase) dto.RepairCaseDTO {
	return dto.RepairCaseDTO{
		CaseID:              c.CaseID,
		CusFirstName:        c.CusFirstName,
		CusLastName:         c.CusLastName,
		CusPhone:            c.CusPhone,
		CaseInstitution:     c.CaseInstitution,
		BrokenSymptom:       c.BrokenSymptom,
		CaseType:            c.CaseType,
		CaseStatus:          c.CaseStatus,
		CaseBrand:           c.CaseBrand,
		CaseModel:           c.CaseModel,
		CaseSN:              c.CaseSN,
		CaseDurableArticles: c.CaseDurableArticles,
		CaseEquipment:       c.CaseEquipment,
		DatePickUp:          utils.FormatDate(c.DatePickUp),
		DateBeforePicUp:     utils.FormatDate(c.DateBeforePickUp),
		DateComplete:        utils.FormatDate(c.DateComplete),
		DateDelivered:       utils.FormatDate(c.DateDelivered),
		RefSentRepairID:     c.RefSentRepairID,
		CreatedAt:           c.CreatedAt,
	}
}
