package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-office/internal/dto"
	"repair-office/internal/services"
	"repair-office/pkg/api"
	"repair-office/pkg/utils"
)

type SentRepairController struct {
	sentRepairService services.SentRepairServiceInterface
	logger            *zap.Logger
}

func NewSentRepairController(sentRepairService services.SentRepairServiceInterface, logger *zap.Logger) *SentRepairController {
	return &SentRepairController{sentRepairService: sentRepairService, logger: logger}
}

// GetSentRepairs pages by offset, or by created date when lastDate is set.
func (c *SentRepairController) GetSentRepairs(ctx echo.Context) error {
	opts := utils.ParseListOptions(ctx.QueryParams())

	res, err := c.sentRepairService.GetSentRepairs(ctx.Request().Context(), opts)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessList(ctx, "sent repairs", res)
}

func (c *SentRepairController) FindSentRepair(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.sentRepairService.FindSentRepair(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "sent repair", res)
}

func (c *SentRepairController) CreateSentRepair(ctx echo.Context) error {
	var payload dto.CreateSentRepairDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.sentRepairService.CreateSentRepair(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "sent repair created", res)
}

func (c *SentRepairController) UpdateSentRepair(ctx echo.Context) error {
	var payload dto.UpdateSentRepairDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.sentRepairService.UpdateSentRepair(ctx.Request().Context(), payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "sent repair updated", http.StatusOK)
}

func (c *SentRepairController) DeleteSentRepair(ctx echo.Context) error {
	var payload dto.DeleteSentRepairDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.sentRepairService.DeleteSentRepair(ctx.Request().Context(), payload.CaseSID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "sent repair deleted", http.StatusOK)
}
