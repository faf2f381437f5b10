package controllers

import (
	"fmt"
	"net/http"

	"inventory-system/internal/dto"
	"inventory-system/internal/export"
	"inventory-system/internal/services"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/middleware"
	"inventory-system/pkg/utils"
	"inventory-system/pkg/validation"
	"inventory-system/seeders"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	logger           *zap.Logger
}

func NewEquipmentController(
	service services.EquipmentServiceInterface,
	logger *zap.Logger,
) *EquipmentController {
	return &EquipmentController{
		equipmentService: service,
		logger:           logger,
	}
}

func (c *EquipmentController) GetEquipments(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	query, err := services.NewListQuery(filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, total, err := c.equipmentService.GetEquipments(ctx.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(ctx, utils.ToHttpError(err, "Не удалось получить список оборудования"), c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Список оборудования успешно получен", http.StatusOK, total)
}

func (c *EquipmentController) FindEquipment(ctx echo.Context) error {
	id := ctx.Param("id")

	res, err := c.equipmentService.FindEquipment(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, utils.ToHttpError(err, "Не удалось найти оборудование"), c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Оборудование успешно найдено", http.StatusOK)
}

func (c *EquipmentController) CreateEquipment(ctx echo.Context) error {
	var payload dto.CreateEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("CreateEquipment: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", nil, nil), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.CreateEquipment(ctx.Request().Context(), payload, middleware.ActorFrom(ctx))
	if err != nil {
		return utils.ErrorResponse(ctx, utils.ToHttpError(err, "Не удалось создать оборудование"), c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Оборудование успешно создано", http.StatusCreated)
}

func (c *EquipmentController) UpdateEquipment(ctx echo.Context) error {
	id := ctx.Param("id")

	var payload dto.UpdateEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("UpdateEquipment: ошибка привязки данных", zap.String("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", nil, nil), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.UpdateEquipment(ctx.Request().Context(), id, payload, middleware.ActorFrom(ctx))
	if err != nil {
		return utils.ErrorResponse(ctx, utils.ToHttpError(err, "Не удалось обновить оборудование"), c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Оборудование успешно обновлено", http.StatusOK)
}

func (c *EquipmentController) ChangeStatus(ctx echo.Context) error {
	id := ctx.Param("id")

	var payload dto.ChangeStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", nil, nil), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.ChangeStatus(ctx.Request().Context(), id, payload.Status, middleware.ActorFrom(ctx))
	if err != nil {
		return utils.ErrorResponse(ctx, utils.ToHttpError(err, "Не удалось изменить статус"), c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Статус оборудования изменен", http.StatusOK)
}

func (c *EquipmentController) DeleteEquipment(ctx echo.Context) error {
	id := ctx.Param("id")

	if err := c.equipmentService.DeleteEquipment(ctx.Request().Context(), id, middleware.ActorFrom(ctx)); err != nil {
		return utils.ErrorResponse(ctx, utils.ToHttpError(err, "Не удалось удалить оборудование"), c.logger)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Оборудование успешно удалено", http.StatusOK)
}

func (c *EquipmentController) PopulateSampleData(ctx echo.Context) error {
	res, err := c.equipmentService.PopulateSampleData(ctx.Request().Context(), seeders.SampleEquipment(), middleware.ActorFrom(ctx))
	if err != nil {
		return utils.ErrorResponse(ctx, utils.ToHttpError(err, "Не удалось заполнить демонстрационные данные"), c.logger)
	}

	if res.Skipped {
		return utils.SuccessResponse(ctx, res, "Хранилище не пустое, данные не добавлены", http.StatusOK)
	}
	return utils.SuccessResponse(ctx, res, "Демонстрационные данные добавлены", http.StatusCreated)
}

// ImportEquipment принимает XLSX в формате выгрузки (поле формы "file").
func (c *EquipmentController) ImportEquipment(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Файл не передан (поле 'file')", nil, nil), c.logger)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError, "Не удалось открыть файл", err, nil), c.logger)
	}
	defer src.Close()

	if _, err := validation.ValidateFile(fileHeader.Size, src, constants.UploadContextInventoryImport.String()); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	rows, err := export.ReadXLSX(src)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, err.Error(), nil, nil), c.logger)
	}

	records, rowErrors := export.Records(rows)
	if len(rowErrors) > 0 {
		httpErr := apperrors.NewHttpError(http.StatusBadRequest, fmt.Sprintf("Ошибки в файле: %d", len(rowErrors)), nil, nil)
		httpErr.Details = rowErrors
		return utils.ErrorResponse(ctx, httpErr, c.logger)
	}

	inserted, err := c.equipmentService.ImportEquipment(ctx.Request().Context(), records, middleware.ActorFrom(ctx))
	if err != nil {
		return utils.ErrorResponse(ctx, utils.ToHttpError(err, "Не удалось импортировать оборудование"), c.logger)
	}

	c.logger.Info("Импорт оборудования завершен", zap.String("file", fileHeader.Filename), zap.Int("inserted", inserted))
	return utils.SuccessResponse(ctx, map[string]int{"inserted": inserted}, "Импорт завершен", http.StatusCreated)
}
