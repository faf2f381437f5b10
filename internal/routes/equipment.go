package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
)

func runEquipmentRouter(
	api *echo.Group,
	equipmentService services.EquipmentServiceInterface,
	tracker services.ChangeTrackerInterface,
	recentLimit int,
	logger *zap.Logger,
) {
	equipmentCtrl := controllers.NewEquipmentController(equipmentService, logger)
	historyCtrl := controllers.NewHistoryController(tracker, recentLimit, logger)

	api.GET("/equipment", equipmentCtrl.GetEquipments)
	api.POST("/equipment", equipmentCtrl.CreateEquipment)
	api.POST("/equipment/sample-data", equipmentCtrl.PopulateSampleData)
	api.POST("/equipment/import", equipmentCtrl.ImportEquipment)
	api.GET("/equipment/:id", equipmentCtrl.FindEquipment)
	api.PUT("/equipment/:id", equipmentCtrl.UpdateEquipment)
	api.PATCH("/equipment/:id/status", equipmentCtrl.ChangeStatus)
	api.DELETE("/equipment/:id", equipmentCtrl.DeleteEquipment)

	api.GET("/equipment/:id/history", historyCtrl.GetEquipmentHistory)
	api.GET("/history/recent", historyCtrl.GetRecentActivity)
}
