package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	logger           *zap.Logger
}

func NewDashboardController(ds services.DashboardServiceInterface, logger *zap.Logger) *DashboardController {
	return &DashboardController{
		dashboardService: ds,
		logger:           logger,
	}
}

func (ctrl *DashboardController) GetDashboardStats(c echo.Context) error {
	stats, err := ctrl.dashboardService.GetStats(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, utils.ToHttpError(err, "Не удалось получить статистику"), ctrl.logger)
	}
	return utils.SuccessResponse(c, stats, "Статистика для дашборда получена", http.StatusOK)
}
