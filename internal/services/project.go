package services

import (
	"context"
	"mime/multipart"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"repair-office/internal/dto"
	"repair-office/internal/entities"
	"repair-office/internal/repositories"
	"repair-office/pkg/config"
	"repair-office/pkg/filestorage"
	"repair-office/pkg/types"
	"repair-office/pkg/utils"
)

type ProjectServiceInterface interface {
	GetProjects(ctx context.Context, opts types.ListOptions) (types.ListResult[dto.ProjectDTO], error)
	FindProject(ctx context.Context, id string) (*dto.ProjectDTO, error)
	CreateProject(ctx context.Context, payload dto.CreateProjectDTO, images []*multipart.FileHeader) (*dto.CreatedProjectDTO, error)
	UpdateProject(ctx context.Context, payload dto.UpdateProjectDTO, images []*multipart.FileHeader) error
	DeleteProject(ctx context.Context, id string) error
}

type ProjectService struct {
	ids         repositories.IDAllocator
	repo        repositories.ProjectRepositoryInterface
	txManager   repositories.TxManagerInterface
	fileStorage filestorage.FileStorageInterface
	cache       repositories.CacheRepositoryInterface
	logger      *zap.Logger
}

func NewProjectService(
	repo repositories.ProjectRepositoryInterface,
	txManager repositories.TxManagerInterface,
	fileStorage filestorage.FileStorageInterface,
	cache repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) ProjectServiceInterface {
	return &ProjectService{
		ids:         repositories.ProjectSequence,
		repo:        repo,
		txManager:   txManager,
		fileStorage: fileStorage,
		cache:       cache,
		logger:      logger,
	}
}

func (s *ProjectService) GetProjects(ctx context.Context, opts types.ListOptions) (types.ListResult[dto.ProjectDTO], error) {
	res, err := s.repo.GetProjects(ctx, opts)
	if err != nil {
		return types.ListResult[dto.ProjectDTO]{}, err
	}
	return mapList(res, projectToDTO), nil
}

func (s *ProjectService) FindProject(ctx context.Context, id string) (*dto.ProjectDTO, error) {
	p, err := s.repo.FindProject(ctx, id)
	if err != nil {
		return nil, err
	}
	res := projectToDTO(*p)
	return &res, nil
}

func (s *ProjectService) CreateProject(ctx context.Context, payload dto.CreateProjectDTO, images []*multipart.FileHeader) (*dto.CreatedProjectDTO, error) {
	p, err := projectFromDTO(payload)
	if err != nil {
		return nil, err
	}
	if p.Status == "" {
		p.Status = entities.ProjectStatusWaiting
	}

	paths, err := s.saveImages(ctx, images)
	if err != nil {
		return nil, err
	}
	p.Images = imagesFromPaths(paths)

	err = repositories.RetryOnConflict(ctx, s.txManager, s.logger, func(tx pgx.Tx) error {
		id, err := s.ids.Next(ctx, tx, entities.ProjectPrefix)
		if err != nil {
			return err
		}
		p.PID = id
		return s.repo.CreateProject(ctx, tx, p)
	})
	if err != nil {
		s.logger.Error("create project failed", zap.Error(err))
		s.removeFiles(ctx, paths)
		return nil, err
	}

	invalidate(ctx, s.cache, s.logger, dashboardKeys...)
	s.logger.Info("project created", zap.String("pId", p.PID), zap.Int("images", len(paths)))
	return &dto.CreatedProjectDTO{PID: p.PID}, nil
}

// UpdateProject rewrites the project fields and appends any uploaded images
// after the existing ones.
func (s *ProjectService) UpdateProject(ctx context.Context, payload dto.UpdateProjectDTO, images []*multipart.FileHeader) error {
	p, err := projectFromDTO(payload.CreateProjectDTO)
	if err != nil {
		return err
	}
	p.PID = payload.PID

	paths, err := s.saveImages(ctx, images)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.repo.UpdateProject(ctx, tx, p); err != nil {
			return err
		}
		return s.repo.AppendImages(ctx, tx, p.PID, paths)
	})
	if err != nil {
		s.removeFiles(ctx, paths)
		return err
	}

	invalidate(ctx, s.cache, s.logger, dashboardKeys...)
	return nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	paths, err := s.repo.DeleteProject(ctx, id)
	if err != nil {
		return err
	}
	s.removeFiles(ctx, paths)

	invalidate(ctx, s.cache, s.logger, dashboardKeys...)
	s.logger.Info("project deleted", zap.String("pId", id), zap.Int("images", len(paths)))
	return nil
}

// saveImages validates and stores every upload. On any failure the files
// already written are removed.
func (s *ProjectService) saveImages(ctx context.Context, images []*multipart.FileHeader) ([]string, error) {
	rules := config.UploadContexts[config.UploadProjectImage]
	paths := make([]string, 0, len(images))

	for _, fh := range images {
		path, err := s.saveImage(ctx, fh, rules.PathPrefix)
		if err != nil {
			s.removeFiles(ctx, paths)
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *ProjectService) saveImage(ctx context.Context, fh *multipart.FileHeader, prefix string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := utils.ValidateFile(fh, src, config.UploadProjectImage); err != nil {
		return "", err
	}
	return s.fileStorage.Save(ctx, src, fh.Filename, prefix)
}

func (s *ProjectService) removeFiles(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.fileStorage.Delete(ctx, p); err != nil {
			s.logger.Warn("could not remove project image", zap.String("path", p), zap.Error(err))
		}
	}
}

func imagesFromPaths(paths []string) []entities.ProjectImage {
	images := make([]entities.ProjectImage, 0, len(paths))
	for i, p := range paths {
		images = append(images, entities.ProjectImage{Path: p, SortOrder: i + 1})
	}
	return images
}

func projectFromDTO(d dto.CreateProjectDTO) (entities.Project, error) {
	dates, err := parseDates(map[string]null.String{
		"dateCreate":   d.DateCreate,
		"dateComplete": d.DateComplete,
	})
	if err != nil {
		return entities.Project{}, err
	}
	return entities.Project{
		Address:      d.Address,
		Detail:       d.Detail,
		Status:       d.Status,
		DateCreate:   dates["dateCreate"],
		DateComplete: dates["dateComplete"],
	}, nil
}

func projectToDTO(p entities.Project) dto.ProjectDTO {
	return dto.ProjectDTO{
		PID:          p.PID,
		Address:      p.Address,
		Detail:       p.Detail,
		Status:       p.Status,
		DateCreate:   utils.FormatDate(p.DateCreate),
		DateComplete: utils.FormatDate(p.DateComplete),
		Images:       p.ImagePaths(),
		CreatedAt:    p.CreatedAt,
	}
}
