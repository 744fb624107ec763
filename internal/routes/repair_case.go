package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-office/internal/controllers"
	"repair-office/internal/services"
)

func runRepairCaseRouter(group *echo.Group, repairService services.RepairCaseServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewRepairCaseController(repairService, logger)

	group.GET("/get-case-info", ctrl.GetRepairCases)
	group.GET("/get-filter-options", ctrl.GetFilterOptions)
	group.GET("/get-case-detail/:id", ctrl.FindRepairCase)
	group.POST("/create-case", ctrl.CreateRepairCase)
	group.POST("/update-case", ctrl.UpdateRepairCase)
	group.POST("/delete-case", ctrl.DeleteRepairCase)
	group.GET("/print-case/:id", ctrl.PrintRepairCase)
	group.GET("/export-case-info", ctrl.ExportRepairCases)
}
