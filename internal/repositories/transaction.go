package repositories

import (
	"context"
	"fmt"

	apperrors "inventory-system/pkg/errors"
)

const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Store объединяет три хранилища инвентаря и единицу работы над ними.
type Store interface {
	Equipment() EquipmentRepositoryInterface
	History() HistoryRepositoryInterface
	Attachments() AttachmentRepositoryInterface

	// RunInTransaction выполняет fn над хранилищем, привязанным к одной единице работы.
	// Postgres дает настоящую транзакцию, память - сериализацию с откатом,
	// Redis - только последовательное выполнение без отката.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// ValidateDriver проверяет имя драйвера хранилища из конфигурации.
func ValidateDriver(driver string) error {
	switch driver {
	case DriverPostgres, DriverRedis, DriverMemory:
		return nil
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownDriver, driver)
	}
}
