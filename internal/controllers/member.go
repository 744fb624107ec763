package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-office/internal/dto"
	"repair-office/internal/services"
	"repair-office/pkg/api"
	"repair-office/pkg/middleware"
	"repair-office/pkg/utils"
)

type MemberController struct {
	memberService services.MemberServiceInterface
	logger        *zap.Logger
}

func NewMemberController(memberService services.MemberServiceInterface, logger *zap.Logger) *MemberController {
	return &MemberController{memberService: memberService, logger: logger}
}

func (c *MemberController) Register(ctx echo.Context) error {
	var payload dto.RegisterMemberDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.memberService.Register(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "member registered", res)
}

func (c *MemberController) Login(ctx echo.Context) error {
	var payload dto.LoginDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.memberService.Login(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "login successful", res)
}

func (c *MemberController) Refresh(ctx echo.Context) error {
	var payload dto.RefreshTokenDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.memberService.Refresh(ctx.Request().Context(), payload.RefreshToken)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "token refreshed", res)
}

// Authen decodes the caller's bearer token.
func (c *MemberController) Authen(ctx echo.Context) error {
	token, err := middleware.BearerToken(ctx.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.memberService.Authen(ctx.Request().Context(), token)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "ok", res)
}
