package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-office/internal/services"
	"repair-office/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	logger           *zap.Logger
}

func NewDashboardController(ds services.DashboardServiceInterface, logger *zap.Logger) *DashboardController {
	return &DashboardController{dashboardService: ds, logger: logger}
}

func (ctrl *DashboardController) GetStatistics(c echo.Context) error {
	stats, err := ctrl.dashboardService.GetStatistics(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, stats, "dashboard statistics", http.StatusOK)
}

func (ctrl *DashboardController) GetRecentActivities(c echo.Context) error {
	limit := utils.ParseLimit(c.QueryParam("limit"), 10, 100)

	activities, err := ctrl.dashboardService.GetRecentActivities(c.Request().Context(), limit)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, activities, "recent activities", http.StatusOK)
}
