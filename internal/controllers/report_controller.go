package controllers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/export"
	"inventory-system/internal/services"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
	now           func() time.Time
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger, now: time.Now}
}

func (c *ReportController) GetSummary(ctx echo.Context) error {
	query, err := services.NewListQuery(utils.ParseFilterFromQuery(ctx.Request().URL.Query()))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.logger.Debug("Запрос сводки с фильтрами", zap.Any("predicate", query.Predicate))

	summary, err := c.reportService.GetSummary(ctx.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(ctx, utils.ToHttpError(err, "Не удалось сформировать сводку"), c.logger)
	}
	return utils.SuccessResponse(ctx, summary, "Сводка успешно сформирована", http.StatusOK)
}

// Export отдает файл целиком (csv по умолчанию, xlsx по ?format=xlsx).
func (c *ReportController) Export(ctx echo.Context) error {
	format, err := export.ParseFormat(ctx.QueryParam("format"))
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, err.Error(), nil, nil), c.logger)
	}
	query, err := services.NewListQuery(utils.ParseFilterFromQuery(ctx.Request().URL.Query()))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	// Буфер, чтобы при ошибке ответить JSON, а не обрезанным файлом.
	var buf bytes.Buffer
	if err := c.reportService.Export(ctx.Request().Context(), query, format, &buf); err != nil {
		return utils.ErrorResponse(ctx, utils.ToHttpError(err, "Не удалось сформировать выгрузку"), c.logger)
	}

	fileName := export.FileName(format, c.now())
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	return ctx.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}
