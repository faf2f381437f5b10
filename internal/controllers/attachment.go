package controllers

import (
	"net/http"

	"inventory-system/internal/services"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/middleware"
	"inventory-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AttachmentController struct {
	attachmentService services.AttachmentServiceInterface
	logger            *zap.Logger
}

func NewAttachmentController(
	attachmentService services.AttachmentServiceInterface,
	logger *zap.Logger,
) *AttachmentController {
	return &AttachmentController{
		attachmentService: attachmentService,
		logger:            logger,
	}
}

func (c *AttachmentController) GetAttachments(ctx echo.Context) error {
	equipmentID := ctx.Param("id")

	res, err := c.attachmentService.ListByEquipment(ctx.Request().Context(), equipmentID)
	if err != nil {
		return utils.ErrorResponse(ctx, utils.ToHttpError(err, "Не удалось получить вложения"), c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Вложения успешно получены", http.StatusOK)
}

// UploadAttachment - multipart, поле "file".
func (c *AttachmentController) UploadAttachment(ctx echo.Context) error {
	equipmentID := ctx.Param("id")

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Файл не передан (поле 'file')", nil, nil), c.logger)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError, "Не удалось открыть файл", err, nil), c.logger)
	}
	defer src.Close()

	res, err := c.attachmentService.Upload(
		ctx.Request().Context(),
		equipmentID,
		fileHeader.Filename,
		fileHeader.Size,
		src,
		middleware.ActorFrom(ctx),
	)
	if err != nil {
		return utils.ErrorResponse(ctx, utils.ToHttpError(err, "Не удалось сохранить вложение"), c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Вложение добавлено", http.StatusCreated)
}

func (c *AttachmentController) DeleteAttachment(ctx echo.Context) error {
	id := ctx.Param("id")

	if err := c.attachmentService.Delete(ctx.Request().Context(), id, middleware.ActorFrom(ctx)); err != nil {
		return utils.ErrorResponse(ctx, utils.ToHttpError(err, "Не удалось удалить вложение"), c.logger)
	}

	return utils.SuccessResponse(ctx, nil, "Вложение удалено", http.StatusOK)
}
