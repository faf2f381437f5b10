package routes

import (
	"inventory-system/internal/controllers"
	"inventory-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runAttachmentRouter(
	api *echo.Group,
	attachmentService services.AttachmentServiceInterface,
	logger *zap.Logger,
) {
	attachmentController := controllers.NewAttachmentController(
		attachmentService,
		logger,
	)

	api.GET("/equipment/:id/attachments", attachmentController.GetAttachments)
	api.POST("/equipment/:id/attachments", attachmentController.UploadAttachment)
	api.DELETE("/attachments/:id", attachmentController.DeleteAttachment)
}
