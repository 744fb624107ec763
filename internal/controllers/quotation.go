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

type QuotationController struct {
	quotationService services.QuotationServiceInterface
	logger           *zap.Logger
}

func NewQuotationController(quotationService services.QuotationServiceInterface, logger *zap.Logger) *QuotationController {
	return &QuotationController{quotationService: quotationService, logger: logger}
}

func (c *QuotationController) GetQuotations(ctx echo.Context) error {
	opts := utils.ParseListOptions(ctx.QueryParams())

	res, err := c.quotationService.GetQuotations(ctx.Request().Context(), opts)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessList(ctx, "quotations", res)
}

func (c *QuotationController) FindQuotation(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.quotationService.FindQuotation(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "quotation", res)
}

func (c *QuotationController) CreateQuotation(ctx echo.Context) error {
	var payload dto.SaveQuotationDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.quotationService.CreateQuotation(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "quotation created", res)
}

func (c *QuotationController) UpdateQuotation(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.SaveQuotationDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.quotationService.UpdateQuotation(ctx.Request().Context(), id, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "quotation updated", dto.CreatedQuotationDTO{ID: id})
}

func (c *QuotationController) DeleteQuotation(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.quotationService.DeleteQuotation(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "quotation deleted", http.StatusOK)
}
