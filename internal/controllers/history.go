package controllers

import (
	"net/http"
	"strconv"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HistoryController struct {
	tracker      services.ChangeTrackerInterface
	defaultLimit int
	logger       *zap.Logger
}

func NewHistoryController(tracker services.ChangeTrackerInterface, defaultLimit int, logger *zap.Logger) *HistoryController {
	return &HistoryController{tracker: tracker, defaultLimit: defaultLimit, logger: logger}
}

// GetEquipmentHistory - журнал одной записи, новые события первыми.
func (c *HistoryController) GetEquipmentHistory(ctx echo.Context) error {
	id := ctx.Param("id")

	entries, err := c.tracker.QueryHistory(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, utils.ToHttpError(err, "Не удалось получить историю"), c.logger)
	}

	return utils.SuccessResponse(ctx, dto.NewHistoryEntryDTOs(entries), "История успешно получена", http.StatusOK)
}

func (c *HistoryController) GetRecentActivity(ctx echo.Context) error {
	limit := c.defaultLimit
	if raw := ctx.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Параметр 'limit' должен быть положительным числом", nil, nil), c.logger)
		}
		limit = n
	}

	entries, err := c.tracker.QueryRecentActivity(ctx.Request().Context(), limit)
	if err != nil {
		return utils.ErrorResponse(ctx, utils.ToHttpError(err, "Не удалось получить последние события"), c.logger)
	}

	return utils.SuccessResponse(ctx, dto.NewHistoryEntryDTOs(entries), "Последние события", http.StatusOK)
}
