package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-office/internal/controllers"
	"repair-office/internal/services"
)

func runSentRepairRouter(group *echo.Group, sentRepairService services.SentRepairServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewSentRepairController(sentRepairService, logger)

	group.GET("/get-sent-repair-info", ctrl.GetSentRepairs)
	group.GET("/get-sent-repair-detail/:id", ctrl.FindSentRepair)
	group.POST("/create-sent-repair", ctrl.CreateSentRepair)
	group.POST("/update-sent-repair", ctrl.UpdateSentRepair)
	group.POST("/delete-sent-repair", ctrl.DeleteSentRepair)
}
