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
	projectTable      = "projects"
	projectImageTable = "project_images"
)

type ProjectRepositoryInterface interface {
	GetProjects(ctx context.Context, opts types.ListOptions) (types.ListResult[entities.Project], error)
	FindProject(ctx context.Context, id string) (*entities.Project, error)
	CreateProject(ctx context.Context, tx pgx.Tx, p entities.Project) error
	UpdateProject(ctx context.Context, q Querier, p entities.Project) error
	AppendImages(ctx context.Context, q Querier, projectID string, paths []string) error
	DeleteProject(ctx context.Context, id string) ([]string, error)
}

type ProjectRepository struct {
	storage Querier
	logger  *zap.Logger
}

func NewProjectRepository(storage Querier, logger *zap.Logger) ProjectRepositoryInterface {
	return &ProjectRepository{storage: storage, logger: logger}
}

func scanProject(row pgx.Row) (entities.Project, error) {
	var p entities.Project
	err := row.Scan(&p.PID, &p.Address, &p.Detail, &p.Status, &p.DateCreate, &p.DateComplete, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, apperrors.ErrNotFound
	}
	if err != nil {
		return p, fmt.Errorf("scan project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepository) GetProjects(ctx context.Context, opts types.ListOptions) (types.ListResult[entities.Project], error) {
	result, err := listRows(ctx, r.storage, ProjectListSpec, opts, scanProject)
	if err != nil || len(result.Rows) == 0 {
		return result, err
	}

	ids := make([]string, 0, len(result.Rows))
	for _, p := range result.Rows {
		ids = append(ids, p.PID)
	}
	images, err := r.loadImages(ctx, ids)
	if err != nil {
		return types.ListResult[entities.Project]{}, err
	}
	for i := range result.Rows {
		result.Rows[i].Images = images[result.Rows[i].PID]
	}
	return result, nil
}

func (r *ProjectRepository) FindProject(ctx context.Context, id string) (*entities.Project, error) {
	query, args, err := psql.Select(projectColumns...).
		From(projectTable).
		Where(sq.Eq{"p_id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	p, err := scanProject(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	images, err := r.loadImages(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	p.Images = images[id]
	return &p, nil
}

func (r *ProjectRepository) loadImages(ctx context.Context, projectIDs []string) (map[string][]entities.ProjectImage, error) {
	query, args, err := psql.Select("id", "project_id", "path", "sort_order").
		From(projectImageTable).
		Where("project_id = ANY(?)", projectIDs).
		OrderBy("project_id", "sort_order").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load project images: %w", err)
	}
	defer rows.Close()

	images := make(map[string][]entities.ProjectImage, len(projectIDs))
	for rows.Next() {
		var img entities.ProjectImage
		if err := rows.Scan(&img.ID, &img.ProjectID, &img.Path, &img.SortOrder); err != nil {
			return nil, fmt.Errorf("scan project image: %w", err)
		}
		images[img.ProjectID] = append(images[img.ProjectID], img)
	}
	return images, rows.Err()
}

func (r *ProjectRepository) CreateProject(ctx context.Context, tx pgx.Tx, p entities.Project) error {
	query, args, err := psql.Insert(projectTable).
		Columns("p_id", "p_address", "p_detail", "p_status", "date_create", "date_complete").
		Values(p.PID, p.Address, p.Detail, p.Status, p.DateCreate, p.DateComplete).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert project %s: %w", p.PID, err)
	}
	return r.AppendImages(ctx, tx, p.PID, p.ImagePaths())
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, q Querier, p entities.Project) error {
	query, args, err := psql.Update(projectTable).
		Set("p_address", p.Address).
		Set("p_detail", p.Detail).
		Set("p_status", sq.Expr("COALESCE(NULLIF(?, ''), p_status)", p.Status)).
		Set("date_create", p.DateCreate).
		Set("date_complete", p.DateComplete).
		Where(sq.Eq{"p_id": p.PID}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update project %s: %w", p.PID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AppendImages adds paths after the project's current last image. Callers run
// it in the transaction that updated the project row, which holds the row lock.
func (r *ProjectRepository) AppendImages(ctx context.Context, q Querier, projectID string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	const query = `
		INSERT INTO project_images (project_id, path, sort_order)
		SELECT $1, p.path, COALESCE((SELECT MAX(sort_order) FROM project_images WHERE project_id = $1), 0) + p.ord
		FROM unnest($2::text[]) WITH ORDINALITY AS p(path, ord)`

	if _, err := q.Exec(ctx, query, projectID, paths); err != nil {
		return fmt.Errorf("append images to %s: %w", projectID, err)
	}
	return nil
}

// DeleteProject removes the project and its image rows, returning the image
// paths so the caller can remove the files.
func (r *ProjectRepository) DeleteProject(ctx context.Context, id string) ([]string, error) {
	const query = `
		WITH gone AS (DELETE FROM projects WHERE p_id = $1 RETURNING p_id)
		SELECT (SELECT COUNT(*) FROM gone),
		       COALESCE((SELECT array_agg(path ORDER BY sort_order) FROM project_images WHERE project_id = $1), '{}')`

	var deleted int64
	var paths []string
	if err := r.storage.QueryRow(ctx, query, id).Scan(&deleted, &paths); err != nil {
		return nil, fmt.Errorf("delete project %s: %w", id, err)
	}
	if deleted == 0 {
		return nil, apperrors.ErrNotFound
	}
	return paths, nil
}
