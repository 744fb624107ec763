package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-office/internal/controllers"
	"repair-office/internal/services"
	"repair-office/pkg/middleware"
)

func runMemberRouter(api *echo.Group, memberService services.MemberServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewMemberController(memberService, logger)

	member := api.Group("/member")
	{
		member.POST("/register", ctrl.Register)
		member.POST("/login", ctrl.Login)
		member.POST("/refresh", ctrl.Refresh)
		member.GET("/authen", ctrl.Authen, authMW.Auth)
	}
}
