package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
)

func newTracker(history repositories.HistoryRepositoryInterface) *ChangeTracker {
	return NewChangeTracker(history, zap.NewNop(),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs("h")),
	)
}

func existingRecord() entities.Equipment {
	e := sampleInventory()[0]
	e.ID = "eq-1"
	return e
}

func TestChangeTracker_RecordCreation(t *testing.T) {
	history := repositories.NewMemoryStore().History()
	tracker := newTracker(history)

	written, err := tracker.RecordCreation(context.Background(), "eq-1", "Maria")
	require.NoError(t, err)
	require.Len(t, written, 1)

	e := written[0]
	assert.Equal(t, entities.ChangeCreated, e.ChangeType)
	assert.Equal(t, "eq-1", e.EquipmentID)
	assert.Equal(t, "Maria", e.User)
	assert.Equal(t, fixedNow, e.Timestamp)
	assert.Nil(t, e.Field)
	assert.Nil(t, e.OldValue)
	assert.Nil(t, e.NewValue)

	stored, err := history.FindAll(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, written, stored)
}

func TestChangeTracker_RecordUpdate_SingleStatusChange(t *testing.T) {
	history := repositories.NewMemoryStore().History()
	tracker := newTracker(history)
	existing := existingRecord()

	changes := entities.NewEquipmentChanges()
	require.NoError(t, changes.Set(entities.FieldStatus, entities.EnumValue(entities.StatusMaintenance)))
	require.NoError(t, changes.Set(entities.FieldLocation, entities.TextValue(existing.Location)))

	written, err := tracker.RecordUpdate(context.Background(), existing, changes, "Maria")
	require.NoError(t, err)
	require.Len(t, written, 1)

	e := written[0]
	assert.Equal(t, entities.ChangeEdited, e.ChangeType)
	assert.Equal(t, "status", *e.Field)
	assert.Equal(t, "active", *e.OldValue)
	assert.Equal(t, "maintenance", *e.NewValue)
	assert.Equal(t, entities.KindEnum, *e.ValueKind)
}

func TestChangeTracker_RecordUpdate_NoChangesNoAppend(t *testing.T) {
	history := repositories.NewMemoryStore().History()
	tracker := newTracker(history)
	existing := existingRecord()

	changes := entities.NewEquipmentChanges()
	require.NoError(t, changes.Set(entities.FieldBrand, entities.TextValue(existing.Brand)))
	require.NoError(t, changes.Set(entities.FieldMonetaryValue, entities.NumberValue(4500.0)))
	require.NoError(t, changes.Set(entities.FieldAcquisitionDate, entities.DateValue(existing.AcquisitionDate)))

	written, err := tracker.RecordUpdate(context.Background(), existing, changes, "Maria")
	require.NoError(t, err)
	assert.Empty(t, written)

	written, err = tracker.RecordUpdate(context.Background(), existing, entities.NewEquipmentChanges(), "Maria")
	require.NoError(t, err)
	assert.Empty(t, written)

	stored, err := history.FindAll(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestChangeTracker_RecordUpdate_OneEntryPerChangedField(t *testing.T) {
	history := repositories.NewMemoryStore().History()
	tracker := newTracker(history)
	existing := existingRecord()

	changes := entities.NewEquipmentChanges()
	require.NoError(t, changes.Set(entities.FieldMonetaryValue, entities.NumberValue(4000)))
	require.NoError(t, changes.Set(entities.FieldAssetNumber, entities.TextValue("COMP-009")))
	require.NoError(t, changes.Set(entities.FieldSpecs, entities.OptionalTextValue(nil)))
	require.NoError(t, changes.Set(entities.FieldModel, entities.TextValue(existing.Model)))
	// Идентификатор в журнал не попадает никогда.
	require.NoError(t, changes.Set(entities.FieldID, entities.TextValue("other")))

	written, err := tracker.RecordUpdate(context.Background(), existing, changes, "Maria")
	require.NoError(t, err)
	require.Len(t, written, 3)

	fields := map[string]bool{}
	for _, e := range written {
		assert.Equal(t, entities.ChangeEdited, e.ChangeType)
		assert.False(t, fields[*e.Field], "поле %s повторяется", *e.Field)
		fields[*e.Field] = true
	}
	assert.Equal(t, []string{"assetNumber", "specs", "value"},
		[]string{*written[0].Field, *written[1].Field, *written[2].Field})

	assert.Equal(t, "4500", *written[2].OldValue)
	assert.Equal(t, "4000", *written[2].NewValue)
	assert.Equal(t, "Intel Core i7", *written[1].OldValue)
	assert.Nil(t, written[1].NewValue)
}

func TestChangeTracker_RecordDeletionAndStatusChange(t *testing.T) {
	history := repositories.NewMemoryStore().History()
	tracker := newTracker(history)
	ctx := context.Background()

	written, err := tracker.RecordDeletion(ctx, "eq-4", "PROJ-001", "Ana")
	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, entities.ChangeDeleted, written[0].ChangeType)
	assert.Equal(t, "PROJ-001", *written[0].OldValue)
	assert.Nil(t, written[0].Field)

	written, err = tracker.RecordStatusChange(ctx, "eq-1", entities.StatusActive, entities.StatusDecommissioned, "Ana")
	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, entities.ChangeStatusChanged, written[0].ChangeType)
	assert.Equal(t, "decommissioned", *written[0].NewValue)
}

func TestChangeTracker_RecordAttachmentEvent(t *testing.T) {
	history := repositories.NewMemoryStore().History()
	tracker := newTracker(history)
	ctx := context.Background()

	added, err := tracker.RecordAttachmentEvent(ctx, "eq-1", entities.ChangeAttachmentAdded, "nota.pdf", "Maria")
	require.NoError(t, err)
	assert.Equal(t, "nota.pdf", *added[0].NewValue)
	assert.Nil(t, added[0].OldValue)

	removed, err := tracker.RecordAttachmentEvent(ctx, "eq-1", entities.ChangeAttachmentRemoved, "nota.pdf", "Maria")
	require.NoError(t, err)
	assert.Equal(t, "nota.pdf", *removed[0].OldValue)

	_, err = tracker.RecordAttachmentEvent(ctx, "eq-1", entities.ChangeEdited, "nota.pdf", "Maria")
	var invalid *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func TestChangeTracker_StorageErrorPropagates(t *testing.T) {
	boom := errors.New("диск заполнен")
	tracker := newTracker(failingHistory{err: boom})

	_, err := tracker.RecordCreation(context.Background(), "eq-1", "Maria")
	assert.ErrorIs(t, err, boom)

	changes := entities.NewEquipmentChanges()
	require.NoError(t, changes.Set(entities.FieldBrand, entities.TextValue("Lenovo")))
	_, err = tracker.RecordUpdate(context.Background(), existingRecord(), changes, "Maria")
	assert.ErrorIs(t, err, boom)
}

func TestChangeTracker_Queries(t *testing.T) {
	history := repositories.NewMemoryStore().History()
	tracker := newTracker(history)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		id := "eq-a"
		if i%3 == 0 {
			id = "eq-b"
		}
		_, err := tracker.RecordCreation(ctx, id, "Maria")
		require.NoError(t, err)
	}

	recent, err := tracker.QueryRecentActivity(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 10)
	assert.Equal(t, "h-12", recent[0].ID, "новые записи первыми")

	recent, err = tracker.QueryRecentActivity(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	forB, err := tracker.QueryHistory(ctx, "eq-b")
	require.NoError(t, err)
	require.Len(t, forB, 4)
	for _, e := range forB {
		assert.Equal(t, "eq-b", e.EquipmentID)
	}
	assert.Equal(t, "h-10", forB[0].ID)

	none, err := tracker.QueryHistory(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestChangeTracker_BindWritesIntoGivenHistory(t *testing.T) {
	primary := repositories.NewMemoryStore().History()
	other := repositories.NewMemoryStore().History()
	tracker := newTracker(primary)

	_, err := tracker.Bind(other).RecordCreation(context.Background(), "eq-1", "Maria")
	require.NoError(t, err)

	inPrimary, _ := primary.FindAll(context.Background(), 0)
	inOther, _ := other.FindAll(context.Background(), 0)
	assert.Empty(t, inPrimary)
	assert.Len(t, inOther, 1)
}
