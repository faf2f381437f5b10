// Package cli - административная утилита inventoryctl.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inventory-system/internal/infrastructure"
	"inventory-system/internal/services"
	"inventory-system/pkg/config"
	applogger "inventory-system/pkg/logger"
)

var (
	jsonOutput bool
	verbose    bool
	actorFlag  string

	rootCmd = &cobra.Command{
		Use:   "inventoryctl",
		Short: "inventoryctl - администрирование инвентаря оборудования",
		Long: `inventoryctl работает с тем же хранилищем, что и HTTP-сервер:
миграции схемы, демонстрационные данные, выгрузка и импорт, журнал изменений.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "писать лог в stdout")
	rootCmd.PersistentFlags().StringVar(&actorFlag, "user", "", "имя пользователя для журнала (по умолчанию DEFAULT_ACTOR)")
}

// Execute запускает корневую команду.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ошибка:", err.Error())
		os.Exit(1)
	}
}

// env - то, что нужно командам для работы с хранилищем.
type env struct {
	cfg       *config.Config
	logger    *zap.Logger
	storage   *infrastructure.Storage
	tracker   *services.ChangeTracker
	equipment *services.EquipmentService
	reports   *services.ReportService
}

// openEnv подменяется в тестах.
var openEnv = func(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := zap.NewNop()
	if verbose {
		logger = applogger.NewLogger(config.LogConfig{Level: cfg.Log.Level})
	}
	storage, err := infrastructure.OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return newEnv(cfg, storage, logger), nil
}

func newEnv(cfg *config.Config, storage *infrastructure.Storage, logger *zap.Logger) *env {
	tracker := services.NewChangeTracker(storage.Store.History(), logger)
	return &env{
		cfg:       cfg,
		logger:    logger,
		storage:   storage,
		tracker:   tracker,
		equipment: services.NewEquipmentService(storage.Store, tracker, storage.Cache, nil, nil, logger),
		reports:   services.NewReportService(storage.Store.Equipment(), logger),
	}
}

func (e *env) Close() {
	_ = e.storage.Close()
	_ = e.logger.Sync()
}

func (e *env) actor() string {
	if actorFlag != "" {
		return actorFlag
	}
	return e.cfg.App.DefaultActor
}

// withEnv открывает окружение на время выполнения fn.
func withEnv(cmd *cobra.Command, fn func(e *env) error) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
