// Package infrastructure собирает хранилища по конфигурации: общий код для
// HTTP-сервера и inventoryctl.
package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"inventory-system/internal/repositories"
	"inventory-system/pkg/config"
	"inventory-system/pkg/database/postgresql"
	apperrors "inventory-system/pkg/errors"
)

// Storage - выбранное хранилище записей и кеш дашборда.
type Storage struct {
	Store repositories.Store
	Cache repositories.CacheRepositoryInterface
	DB    *sql.DB
	Redis *redis.Client

	logger *zap.Logger
}

// OpenStorage подключается к хранилищу, выбранному в cfg.Storage.Driver.
// Кеш живет в Redis, если Redis доступен по конфигурации драйвера, иначе в памяти.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	if err := repositories.ValidateDriver(cfg.Storage.Driver); err != nil {
		return nil, err
	}
	s := &Storage{logger: logger}

	switch cfg.Storage.Driver {
	case repositories.DriverPostgres:
		db, err := postgresql.Connect(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
		}
		if cfg.Postgres.AutoMigrate {
			if err := postgresql.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		s.DB = db
		s.Store = repositories.NewPostgresStore(db)
	case repositories.DriverRedis:
		client, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		s.Redis = client
		s.Store = repositories.NewRedisStore(client, cfg.Redis.KeyPrefix)
		logger.Info("✅ Подключено к Redis", zap.String("address", cfg.Redis.Address))
	case repositories.DriverMemory:
		s.Store = repositories.NewMemoryStore()
		logger.Warn("Данные хранятся в памяти и пропадут после остановки")
	}

	if s.Redis != nil {
		s.Cache = repositories.NewRedisCacheRepository(s.Redis, cfg.Redis.KeyPrefix)
	} else {
		s.Cache = repositories.NewMemoryCacheRepository()
	}
	return s, nil
}

// OpenRedis создает клиент и проверяет соединение.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis %s: %v", apperrors.ErrStorageUnavailable, cfg.Address, err)
	}
	return client, nil
}

func (s *Storage) Close() error {
	var errs []error
	if s.DB != nil {
		errs = append(errs, s.DB.Close())
	}
	if s.Redis != nil {
		errs = append(errs, s.Redis.Close())
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("Ошибка при закрытии хранилища", zap.Error(err))
		return err
	}
	return nil
}
