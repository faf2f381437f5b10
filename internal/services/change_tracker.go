package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/metrics"
)

// ChangeTrackerInterface - журнал изменений оборудования. Каждый Record* делает
// ровно одну запись в журнал (пакетом для RecordUpdate) и возвращает записанное.
type ChangeTrackerInterface interface {
	RecordCreation(ctx context.Context, equipmentID, actor string) ([]entities.HistoryEntry, error)
	RecordUpdate(ctx context.Context, existing entities.Equipment, changes *entities.EquipmentChanges, actor string) ([]entities.HistoryEntry, error)
	RecordDeletion(ctx context.Context, equipmentID, label, actor string) ([]entities.HistoryEntry, error)
	RecordStatusChange(ctx context.Context, equipmentID string, from, to entities.Status, actor string) ([]entities.HistoryEntry, error)
	RecordAttachmentEvent(ctx context.Context, equipmentID string, changeType entities.ChangeType, fileName, actor string) ([]entities.HistoryEntry, error)

	QueryHistory(ctx context.Context, equipmentID string) ([]entities.HistoryEntry, error)
	QueryRecentActivity(ctx context.Context, limit int) ([]entities.HistoryEntry, error)

	// Bind возвращает копию журнала, пишущую в переданное (обычно транзакционное) хранилище.
	Bind(history repositories.HistoryRepositoryInterface) ChangeTrackerInterface
}

type ChangeTracker struct {
	history repositories.HistoryRepositoryInterface
	now     func() time.Time
	newID   func() string
	logger  *zap.Logger
}

type ChangeTrackerOption func(*ChangeTracker)

// WithClock подменяет источник времени записей.
func WithClock(now func() time.Time) ChangeTrackerOption {
	return func(t *ChangeTracker) { t.now = now }
}

// WithIDGenerator подменяет генератор идентификаторов записей.
func WithIDGenerator(newID func() string) ChangeTrackerOption {
	return func(t *ChangeTracker) { t.newID = newID }
}

func NewChangeTracker(history repositories.HistoryRepositoryInterface, logger *zap.Logger, opts ...ChangeTrackerOption) *ChangeTracker {
	t := &ChangeTracker{
		history: history,
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *ChangeTracker) Bind(history repositories.HistoryRepositoryInterface) ChangeTrackerInterface {
	bound := *t
	bound.history = history
	return &bound
}

func (t *ChangeTracker) entry(equipmentID, actor string, changeType entities.ChangeType) entities.HistoryEntry {
	return entities.HistoryEntry{
		ID:          t.newID(),
		EquipmentID: equipmentID,
		Timestamp:   t.now().UTC(),
		User:        actor,
		ChangeType:  changeType,
	}
}

func (t *ChangeTracker) RecordCreation(ctx context.Context, equipmentID, actor string) ([]entities.HistoryEntry, error) {
	return t.append(ctx, t.entry(equipmentID, actor, entities.ChangeCreated))
}

// RecordUpdate пишет по одной записи на каждое реально измененное поле.
// Если ничего не изменилось, журнал не трогается.
func (t *ChangeTracker) RecordUpdate(ctx context.Context, existing entities.Equipment, changes *entities.EquipmentChanges, actor string) ([]entities.HistoryEntry, error) {
	diff := entities.Diff(existing, changes)
	if len(diff) == 0 {
		return nil, nil
	}

	batch := make([]entities.HistoryEntry, 0, len(diff))
	for _, change := range diff {
		e := t.entry(existing.ID, actor, entities.ChangeEdited)
		field := string(change.Field)
		kind := change.Kind
		e.Field = &field
		e.OldValue = change.Old.Render()
		e.NewValue = change.New.Render()
		e.ValueKind = &kind
		batch = append(batch, e)
	}
	return t.append(ctx, batch...)
}

func (t *ChangeTracker) RecordDeletion(ctx context.Context, equipmentID, label, actor string) ([]entities.HistoryEntry, error) {
	e := t.entry(equipmentID, actor, entities.ChangeDeleted)
	e.OldValue = &label
	return t.append(ctx, e)
}

func (t *ChangeTracker) RecordStatusChange(ctx context.Context, equipmentID string, from, to entities.Status, actor string) ([]entities.HistoryEntry, error) {
	e := t.entry(equipmentID, actor, entities.ChangeStatusChanged)
	kind := entities.KindEnum
	oldValue, newValue := string(from), string(to)
	e.OldValue = &oldValue
	e.NewValue = &newValue
	e.ValueKind = &kind
	return t.append(ctx, e)
}

func (t *ChangeTracker) RecordAttachmentEvent(ctx context.Context, equipmentID string, changeType entities.ChangeType, fileName, actor string) ([]entities.HistoryEntry, error) {
	e := t.entry(equipmentID, actor, changeType)
	switch changeType {
	case entities.ChangeAttachmentAdded:
		e.NewValue = &fileName
	case entities.ChangeAttachmentRemoved:
		e.OldValue = &fileName
	default:
		return nil, apperrors.NewInvalidInputError("тип события %q не относится к вложениям", changeType)
	}
	return t.append(ctx, e)
}

func (t *ChangeTracker) append(ctx context.Context, batch ...entities.HistoryEntry) ([]entities.HistoryEntry, error) {
	if err := t.history.Prepend(ctx, batch...); err != nil {
		return nil, fmt.Errorf("не удалось записать журнал изменений: %w", err)
	}
	for _, e := range batch {
		metrics.HistoryEntries.WithLabelValues(string(e.ChangeType)).Inc()
	}
	return batch, nil
}

func (t *ChangeTracker) QueryHistory(ctx context.Context, equipmentID string) ([]entities.HistoryEntry, error) {
	return t.history.FindByEquipmentID(ctx, equipmentID)
}

func (t *ChangeTracker) QueryRecentActivity(ctx context.Context, limit int) ([]entities.HistoryEntry, error) {
	if limit <= 0 {
		limit = constants.DefaultRecentActivityLimit
	}
	return t.history.FindAll(ctx, limit)
}
