package controllers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-office/internal/dto"
	"repair-office/internal/services"
	"repair-office/pkg/api"
	apperrors "repair-office/pkg/errors"
	"repair-office/pkg/utils"
)

const (
	projectImagesField = "images"
	projectDataField   = "data"
	maxProjectForm     = 64 << 20
)

type ProjectController struct {
	projectService services.ProjectServiceInterface
	logger         *zap.Logger
}

func NewProjectController(projectService services.ProjectServiceInterface, logger *zap.Logger) *ProjectController {
	return &ProjectController{projectService: projectService, logger: logger}
}

func (c *ProjectController) GetProjects(ctx echo.Context) error {
	opts := utils.ParseListOptions(ctx.QueryParams())

	res, err := c.projectService.GetProjects(ctx.Request().Context(), opts)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessList(ctx, "projects", res)
}

func (c *ProjectController) FindProject(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.projectService.FindProject(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "project", res)
}

func (c *ProjectController) CreateProject(ctx echo.Context) error {
	var payload dto.CreateProjectDTO
	images, err := c.bindProject(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.projectService.CreateProject(ctx.Request().Context(), payload, images)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "project created", res)
}

func (c *ProjectController) UpdateProject(ctx echo.Context) error {
	var payload dto.UpdateProjectDTO
	images, err := c.bindProject(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.projectService.UpdateProject(ctx.Request().Context(), payload, images); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "project updated", http.StatusOK)
}

func (c *ProjectController) DeleteProject(ctx echo.Context) error {
	var payload dto.DeleteProjectDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.projectService.DeleteProject(ctx.Request().Context(), payload.PID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "project deleted", http.StatusOK)
}

// bindProject accepts a JSON body, or multipart/form-data with the JSON in
// the "data" field and files under "images".
func (c *ProjectController) bindProject(ctx echo.Context, payload interface{}) ([]*multipart.FileHeader, error) {
	if !strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, bindAndValidate(ctx, payload)
	}

	if err := ctx.Request().ParseMultipartForm(maxProjectForm); err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "invalid multipart form", err, nil)
	}

	data := ctx.FormValue(projectDataField)
	if data == "" {
		return nil, apperrors.NewBadRequestError("field 'data' with JSON is required")
	}
	if err := json.Unmarshal([]byte(data), payload); err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "invalid JSON in 'data'", err, nil)
	}
	if err := ctx.Validate(payload); err != nil {
		return nil, err
	}

	form := ctx.Request().MultipartForm
	c.logger.Debug("project upload", zap.Int("images", len(form.File[projectImagesField])))
	return form.File[projectImagesField], nil
}
