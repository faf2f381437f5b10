package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
)

func runReportRouter(
	api *echo.Group,
	reportService services.ReportServiceInterface,
	dashboardService services.DashboardServiceInterface,
	logger *zap.Logger,
) {
	reportController := controllers.NewReportController(reportService, logger)
	dashboardController := controllers.NewDashboardController(dashboardService, logger)

	api.GET("/reports/summary", reportController.GetSummary)
	api.GET("/reports/export", reportController.Export)
	api.GET("/dashboard", dashboardController.GetDashboardStats)
}
