package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/events"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/filestorage"
	"inventory-system/pkg/metrics"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, q ListQuery) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id string) (*dto.EquipmentDTO, error)
	CreateEquipment(ctx context.Context, d dto.CreateEquipmentDTO, actor string) (*dto.EquipmentDTO, error)
	UpdateEquipment(ctx context.Context, id string, d dto.UpdateEquipmentDTO, actor string) (*dto.EquipmentDTO, error)
	ChangeStatus(ctx context.Context, id string, status entities.Status, actor string) (*dto.EquipmentDTO, error)
	DeleteEquipment(ctx context.Context, id string, actor string) error
	PopulateSampleData(ctx context.Context, samples []entities.Equipment, actor string) (*dto.SampleDataResultDTO, error)
	ImportEquipment(ctx context.Context, records []entities.Equipment, actor string) (int, error)
}

type EquipmentService struct {
	store   repositories.Store
	tracker ChangeTrackerInterface
	cache   repositories.CacheRepositoryInterface
	files   filestorage.FileStorageInterface
	bus     *eventbus.Bus
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

func NewEquipmentService(
	store repositories.Store,
	tracker ChangeTrackerInterface,
	cache repositories.CacheRepositoryInterface,
	files filestorage.FileStorageInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{
		store:   store,
		tracker: tracker,
		cache:   cache,
		files:   files,
		bus:     bus,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, q ListQuery) ([]dto.EquipmentDTO, uint64, error) {
	all, err := s.store.Equipment().FindAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	page, total := q.Apply(all)
	return dto.NewEquipmentDTOs(page), uint64(total), nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id string) (*dto.EquipmentDTO, error) {
	e, err := s.store.Equipment().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := dto.NewEquipmentDTO(*e)
	return &res, nil
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, d dto.CreateEquipmentDTO, actor string) (*dto.EquipmentDTO, error) {
	entity, err := d.ToEntity()
	if err != nil {
		return nil, apperrors.NewInvalidInputError("%v", err)
	}
	entity = s.stamp(entity)

	var written []entities.HistoryEntry
	err = s.store.RunInTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		if err := tx.Equipment().Create(ctx, entity); err != nil {
			return err
		}
		var err error
		written, err = s.tracker.Bind(tx.History()).RecordCreation(ctx, entity.ID, actor)
		return err
	})
	if err != nil {
		s.logger.Error("Ошибка при создании оборудования", zap.String("assetNumber", entity.AssetNumber), zap.Error(err))
		return nil, err
	}

	s.afterMutation(ctx, "create", written)
	s.logger.Info("Оборудование создано", zap.String("id", entity.ID), zap.String("actor", actor))
	res := dto.NewEquipmentDTO(entity)
	return &res, nil
}

// UpdateEquipment применяет частичное обновление. Если ни одно поле не изменилось,
// запись и журнал остаются нетронутыми.
func (s *EquipmentService) UpdateEquipment(ctx context.Context, id string, d dto.UpdateEquipmentDTO, actor string) (*dto.EquipmentDTO, error) {
	changes, err := d.ToChanges()
	if err != nil {
		return nil, apperrors.NewInvalidInputError("%v", err)
	}

	var (
		result  entities.Equipment
		written []entities.HistoryEntry
	)
	err = s.store.RunInTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		existing, err := tx.Equipment().FindByID(ctx, id)
		if err != nil {
			return err
		}
		result = *existing
		if len(entities.Diff(*existing, changes)) == 0 {
			return nil
		}

		merged := changes.ApplyTo(*existing)
		merged.UpdatedAt = s.now().UTC()
		if err := tx.Equipment().Update(ctx, merged); err != nil {
			return err
		}
		written, err = s.tracker.Bind(tx.History()).RecordUpdate(ctx, *existing, changes, actor)
		if err != nil {
			return err
		}
		result = merged
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(written) > 0 {
		s.afterMutation(ctx, "update", written)
		s.logger.Info("Оборудование обновлено", zap.String("id", id), zap.Int("fields", len(written)))
	}
	res := dto.NewEquipmentDTO(result)
	return &res, nil
}

func (s *EquipmentService) ChangeStatus(ctx context.Context, id string, status entities.Status, actor string) (*dto.EquipmentDTO, error) {
	if !status.IsValid() {
		return nil, apperrors.NewInvalidInputError("неизвестный статус: %s", status)
	}

	var (
		result  entities.Equipment
		written []entities.HistoryEntry
	)
	err := s.store.RunInTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		existing, err := tx.Equipment().FindByID(ctx, id)
		if err != nil {
			return err
		}
		result = *existing
		if existing.Status == status {
			return nil
		}

		updated := *existing
		updated.Status = status
		updated.UpdatedAt = s.now().UTC()
		if err := tx.Equipment().Update(ctx, updated); err != nil {
			return err
		}
		written, err = s.tracker.Bind(tx.History()).RecordStatusChange(ctx, id, existing.Status, status, actor)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(written) > 0 {
		s.afterMutation(ctx, "status", written)
	}
	res := dto.NewEquipmentDTO(result)
	return &res, nil
}

// DeleteEquipment удаляет запись вместе с метаданными вложений. Сами файлы
// удаляются после фиксации; ошибки файлового хранилища только логируются.
func (s *EquipmentService) DeleteEquipment(ctx context.Context, id string, actor string) error {
	var (
		removed []entities.Attachment
		written []entities.HistoryEntry
	)
	err := s.store.RunInTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		existing, err := tx.Equipment().FindByID(ctx, id)
		if err != nil {
			return err
		}
		removed, err = tx.Attachments().DeleteByEquipmentID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Equipment().Delete(ctx, id); err != nil {
			return err
		}
		written, err = s.tracker.Bind(tx.History()).RecordDeletion(ctx, id, existing.Label(), actor)
		return err
	})
	if err != nil {
		return err
	}

	s.removeBlobs(ctx, removed)
	s.afterMutation(ctx, "delete", written)
	s.logger.Info("Оборудование удалено", zap.String("id", id), zap.Int("attachments", len(removed)))
	return nil
}

// PopulateSampleData заполняет пустое хранилище демонстрационными записями.
func (s *EquipmentService) PopulateSampleData(ctx context.Context, samples []entities.Equipment, actor string) (*dto.SampleDataResultDTO, error) {
	result := &dto.SampleDataResultDTO{}
	var written []entities.HistoryEntry

	err := s.store.RunInTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		count, err := tx.Equipment().Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			result.Skipped = true
			return nil
		}
		written, err = s.insertAll(ctx, tx, samples, actor)
		result.Inserted = len(written)
		return err
	})
	if err != nil {
		return nil, err
	}

	if result.Inserted > 0 {
		s.afterMutation(ctx, "sample", written)
	}
	return result, nil
}

// ImportEquipment добавляет записи пакетом: либо все, либо ни одной (где хранилище это умеет).
func (s *EquipmentService) ImportEquipment(ctx context.Context, records []entities.Equipment, actor string) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	var written []entities.HistoryEntry
	err := s.store.RunInTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		written, err = s.insertAll(ctx, tx, records, actor)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("импорт прерван: %w", err)
	}
	s.afterMutation(ctx, "import", written)
	return len(written), nil
}

func (s *EquipmentService) insertAll(ctx context.Context, tx repositories.Store, records []entities.Equipment, actor string) ([]entities.HistoryEntry, error) {
	tracker := s.tracker.Bind(tx.History())
	written := make([]entities.HistoryEntry, 0, len(records))
	for _, record := range records {
		if !record.Status.IsValid() {
			return nil, apperrors.NewInvalidInputError("%s: неизвестный статус %q", record.AssetNumber, record.Status)
		}
		if record.Value < 0 {
			return nil, apperrors.NewInvalidInputError("%s: стоимость не может быть отрицательной", record.AssetNumber)
		}
		entity := s.stamp(record)
		if err := tx.Equipment().Create(ctx, entity); err != nil {
			return nil, err
		}
		entries, err := tracker.RecordCreation(ctx, entity.ID, actor)
		if err != nil {
			return nil, err
		}
		written = append(written, entries...)
	}
	return written, nil
}

// stamp назначает новый идентификатор и служебные даты.
func (s *EquipmentService) stamp(e entities.Equipment) entities.Equipment {
	now := s.now().UTC()
	e.ID = s.newID()
	e.CreatedAt = now
	e.UpdatedAt = now
	return e
}

func (s *EquipmentService) removeBlobs(ctx context.Context, removed []entities.Attachment) {
	if s.files == nil {
		return
	}
	for _, a := range removed {
		if err := s.files.Delete(ctx, a.LocationReference); err != nil {
			s.logger.Warn("Не удалось удалить файл вложения",
				zap.String("attachmentID", a.ID),
				zap.String("ref", a.LocationReference),
				zap.Error(err),
			)
		}
	}
}

func (s *EquipmentService) afterMutation(ctx context.Context, operation string, written []entities.HistoryEntry) {
	metrics.EquipmentMutations.WithLabelValues(operation).Inc()
	invalidateDashboard(ctx, s.cache, s.logger)
	publishHistory(ctx, s.bus, written)
}

func invalidateDashboard(ctx context.Context, cache repositories.CacheRepositoryInterface, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Del(ctx, constants.CacheKeyDashboardStats); err != nil && !errors.Is(err, repositories.ErrCacheMiss) {
		logger.Warn("Не удалось сбросить кеш дашборда", zap.Error(err))
	}
}

func publishHistory(ctx context.Context, bus *eventbus.Bus, written []entities.HistoryEntry) {
	if bus == nil {
		return
	}
	for _, e := range written {
		bus.Publish(ctx, events.HistoryRecordedEvent{Entry: e})
	}
}
