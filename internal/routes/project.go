package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-office/internal/controllers"
	"repair-office/internal/services"
)

func runProjectRouter(group *echo.Group, projectService services.ProjectServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewProjectController(projectService, logger)

	group.GET("/get-project-info", ctrl.GetProjects)
	group.GET("/get-project-detail/:id", ctrl.FindProject)
	group.POST("/create-project", ctrl.CreateProject)
	group.POST("/update-project", ctrl.UpdateProject)
	group.POST("/delete-project", ctrl.DeleteProject)
}
