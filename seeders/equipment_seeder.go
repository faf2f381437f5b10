package seeders

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"inventory-system/internal/services"
)

// SeedEquipment наполняет пустое хранилище демонстрационным набором.
// Если записи уже есть, ничего не делает.
func SeedEquipment(ctx context.Context, svc services.EquipmentServiceInterface, actor string, logger *zap.Logger) error {
	logger.Info("Наполнение хранилища демонстрационным оборудованием...")

	res, err := svc.PopulateSampleData(ctx, SampleEquipment(), actor)
	if err != nil {
		return fmt.Errorf("ошибка наполнения оборудования: %w", err)
	}
	if res.Skipped {
		logger.Info("Хранилище не пустое, наполнение пропущено")
		return nil
	}
	logger.Info("Наполнение завершено", zap.Int("inserted", res.Inserted))
	return nil
}
