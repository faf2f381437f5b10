package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/repositories"
	"inventory-system/internal/services"
	"inventory-system/pkg/config"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/filestorage"
	"inventory-system/pkg/middleware"
	"inventory-system/pkg/websocket"
)

// Dependencies - инфраструктура, собранная в main.
type Dependencies struct {
	Store  repositories.Store
	Cache  repositories.CacheRepositoryInterface
	Files  filestorage.FileStorageInterface
	Bus    *eventbus.Bus
	Hub    *websocket.Hub
	Config *config.Config
}

func InitRouter(e *echo.Echo, deps Dependencies, logger *zap.Logger) {
	logger.Info("InitRouter: Начало создания маршрутов")

	cfg := deps.Config
	actorMW := middleware.Actor(cfg.App.DefaultActor)
	api := e.Group("/api", actorMW)

	// --- 1. СЕРВИСЫ ---
	tracker := services.NewChangeTracker(deps.Store.History(), logger)
	equipmentService := services.NewEquipmentService(deps.Store, tracker, deps.Cache, deps.Files, deps.Bus, logger)
	attachmentService := services.NewAttachmentService(deps.Store, tracker, deps.Files, deps.Bus, logger)
	reportService := services.NewReportService(deps.Store.Equipment(), logger)
	dashboardService := services.NewDashboardService(
		deps.Store.Equipment(),
		tracker,
		deps.Cache,
		cfg.Cache.DashboardTTL,
		cfg.App.RecentActivityLimit,
		logger,
	)

	// --- 2. РОУТЕРЫ ---
	runEquipmentRouter(api, equipmentService, tracker, cfg.App.RecentActivityLimit, logger)
	runAttachmentRouter(api, attachmentService, logger)
	runReportRouter(api, reportService, dashboardService, logger)

	wsController := controllers.NewWebSocketController(deps.Hub, logger)
	e.GET("/ws/activity", wsController.ServeActivity, actorMW)

	logger.Info("INIT_ROUTER: Создание маршрутов завершено")
}
