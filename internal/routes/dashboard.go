package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-office/internal/controllers"
	"repair-office/internal/services"
)

func runDashboardRouter(group *echo.Group, dashboardService services.DashboardServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewDashboardController(dashboardService, logger)

	dashboard := group.Group("/dashboard")
	{
		dashboard.GET("/statistics", ctrl.GetStatistics)
		dashboard.GET("/recent-activities", ctrl.GetRecentActivities)
	}
}
