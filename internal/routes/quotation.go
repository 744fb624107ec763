package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-office/internal/controllers"
	"repair-office/internal/services"
)

func runQuotationRouter(group *echo.Group, quotationService services.QuotationServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewQuotationController(quotationService, logger)

	group.GET("/get-quotation-info", ctrl.GetQuotations)
	group.GET("/quotation/:id", ctrl.FindQuotation)
	group.POST("/quotation", ctrl.CreateQuotation)
	group.PUT("/quotation/:id", ctrl.UpdateQuotation)
	group.DELETE("/quotation/:id", ctrl.DeleteQuotation)
}
