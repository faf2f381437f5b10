// Файл: main.go

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"inventory-system/internal/infrastructure"
	"inventory-system/internal/listeners"
	"inventory-system/internal/routes"
	"inventory-system/pkg/config"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/filestorage"
	applogger "inventory-system/pkg/logger"
	appmiddleware "inventory-system/pkg/middleware"
	"inventory-system/pkg/utils"
	"inventory-system/pkg/validation"
	"inventory-system/pkg/websocket"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// 1. Конфиг и логгер
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Echo и middleware
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, appmiddleware.HeaderUser},
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))
	e.Use(middleware.RequestID())
	e.Use(appmiddleware.RequestLogger(logger))
	e.Use(appmiddleware.Metrics())
	e.Validator = validation.New()

	// 3. Хранилища
	storage, err := infrastructure.OpenStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Не удалось открыть хранилище", zap.Error(err), zap.String("driver", cfg.Storage.Driver))
	}
	defer storage.Close()

	files, err := filestorage.New(ctx, cfg.Files)
	if err != nil {
		logger.Fatal("Не удалось создать файловое хранилище", zap.Error(err))
	}
	if cfg.Files.Driver == "local" {
		absPath, err := filepath.Abs(cfg.Files.LocalDir)
		if err != nil {
			logger.Fatal("не удалось получить абсолютный путь к uploads", zap.Error(err))
		}
		e.Static(cfg.Files.PublicURL, absPath)
	}

	// 4. События и лента активности
	bus := eventbus.New(logger)
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)
	listeners.NewActivityListener(hub, logger).Register(bus)

	// 5. Маршруты
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	routes.InitRouter(e, routes.Dependencies{
		Store:  storage.Store,
		Cache:  storage.Cache,
		Files:  files,
		Bus:    bus,
		Hub:    hub,
		Config: cfg,
	}, logger)

	// 6. Запуск и остановка
	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port), zap.String("storage", cfg.Storage.Driver))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Остановка сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}
	if err := bus.Wait(shutdownCtx); err != nil {
		logger.Warn("Не все обработчики событий завершились", zap.Error(err))
	}
	logger.Info("Сервер остановлен")
}
