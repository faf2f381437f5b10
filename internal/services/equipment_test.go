package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/types"
)

func createDTO() dto.CreateEquipmentDTO {
	return dto.CreateEquipmentDTO{
		AssetNumber:     "COMP-001",
		Description:     "Computador Desktop",
		Brand:           "Dell",
		Model:           "XPS 8500",
		Status:          entities.StatusActive,
		Location:        "Escritório Principal",
		Responsible:     "Maria Silva",
		AcquisitionDate: "2023-01-15",
		Value:           8500,
	}
}

func historyOf(t *testing.T, f *fixture) []entities.HistoryEntry {
	t.Helper()
	all, err := f.store.History().FindAll(context.Background(), 0)
	require.NoError(t, err)
	return all
}

func TestEquipmentService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.equipment.CreateEquipment(ctx, createDTO(), "Maria")
	require.NoError(t, err)
	assert.Equal(t, "eq-1", created.ID)
	assert.Equal(t, "Ativo", created.StatusLabel)
	assert.Equal(t, "2023-01-15", created.AcquisitionDate)

	history := historyOf(t, f)
	require.Len(t, history, 1)
	assert.Equal(t, entities.ChangeCreated, history[0].ChangeType)
	assert.Equal(t, "eq-1", history[0].EquipmentID)
	assert.Equal(t, "Maria", history[0].User)
	assert.Nil(t, history[0].Field)
}

func TestEquipmentService_Create_BadDate(t *testing.T) {
	f := newFixture(t)
	d := createDTO()
	d.AcquisitionDate = "15/01/2023"

	_, err := f.equipment.CreateEquipment(context.Background(), d, "Maria")
	var invalid *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
	assert.Empty(t, historyOf(t, f))
}

func TestEquipmentService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.equipment.CreateEquipment(ctx, createDTO(), "Maria")
	require.NoError(t, err)

	status := entities.StatusMaintenance
	location := "Escritório Principal"
	updated, err := f.equipment.UpdateEquipment(ctx, created.ID, dto.UpdateEquipmentDTO{
		Status:   &status,
		Location: &location,
	}, "Ana")
	require.NoError(t, err)
	assert.Equal(t, "maintenance", updated.Status)

	history := historyOf(t, f)
	require.Len(t, history, 2)
	assert.Equal(t, entities.ChangeEdited, history[0].ChangeType)
	assert.Equal(t, "status", *history[0].Field)
	assert.Equal(t, "active", *history[0].OldValue)
	assert.Equal(t, "maintenance", *history[0].NewValue)
	assert.Equal(t, "Ana", history[0].User)

	stored, err := f.store.Equipment().FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusMaintenance, stored.Status)
}

func TestEquipmentService_Update_NoChangesIsSilent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.equipment.CreateEquipment(ctx, createDTO(), "Maria")
	require.NoError(t, err)

	brand := "Dell"
	value := 8500.0
	res, err := f.equipment.UpdateEquipment(ctx, created.ID, dto.UpdateEquipmentDTO{Brand: &brand, Value: &value}, "Ana")
	require.NoError(t, err)
	assert.Equal(t, created.ID, res.ID)
	assert.Len(t, historyOf(t, f), 1)
}

func TestEquipmentService_Update_ValueRoundedToCents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.equipment.CreateEquipment(ctx, createDTO(), "Maria")
	require.NoError(t, err)

	// Отличие меньше копейки изменением не считается.
	same := 8500.004
	_, err = f.equipment.UpdateEquipment(ctx, created.ID, dto.UpdateEquipmentDTO{Value: &same}, "Ana")
	require.NoError(t, err)
	assert.Len(t, historyOf(t, f), 1)

	value := 100.001
	res, err := f.equipment.UpdateEquipment(ctx, created.ID, dto.UpdateEquipmentDTO{Value: &value}, "Ana")
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Value)

	history := historyOf(t, f)
	require.Len(t, history, 2)
	require.NotNil(t, history[0].NewValue)
	assert.Equal(t, "100", *history[0].NewValue)

	stored, err := f.store.Equipment().FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stored.Value)

	_, err = f.equipment.UpdateEquipment(ctx, created.ID, dto.UpdateEquipmentDTO{Value: &value}, "Ana")
	require.NoError(t, err)
	assert.Len(t, historyOf(t, f), 2, "повтор того же запроса не дает записи в журнале")
}

func TestEquipmentService_Update_ClearSpecs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := createDTO()
	d.Specs = ptr("Intel Core i7")
	created, err := f.equipment.CreateEquipment(ctx, d, "Maria")
	require.NoError(t, err)

	res, err := f.equipment.UpdateEquipment(ctx, created.ID, dto.UpdateEquipmentDTO{Specs: null.StringFrom("")}, "Ana")
	require.NoError(t, err)
	assert.Nil(t, res.Specs)

	history := historyOf(t, f)
	require.Len(t, history, 2)
	assert.Equal(t, "specs", *history[0].Field)
	assert.Nil(t, history[0].NewValue)
}

func TestEquipmentService_Update_NotFoundWritesNothing(t *testing.T) {
	f := newFixture(t)
	brand := "Lenovo"

	_, err := f.equipment.UpdateEquipment(context.Background(), "ghost", dto.UpdateEquipmentDTO{Brand: &brand}, "Ana")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, historyOf(t, f))
}

func TestEquipmentService_Update_HistoryFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.equipment.CreateEquipment(ctx, createDTO(), "Maria")
	require.NoError(t, err)

	boom := errors.New("журнал недоступен")
	f.equipment.tracker = failingTracker{ChangeTrackerInterface: f.tracker, err: boom}

	brand := "Lenovo"
	_, err = f.equipment.UpdateEquipment(ctx, created.ID, dto.UpdateEquipmentDTO{Brand: &brand}, "Ana")
	assert.ErrorIs(t, err, boom)

	stored, err := f.store.Equipment().FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dell", stored.Brand, "изменение записи откатывается вместе с журналом")
}

// failingTracker - журнал, у которого Bind возвращает пишущий в failingHistory.
type failingTracker struct {
	ChangeTrackerInterface
	err error
}

func (f failingTracker) Bind(history repositories.HistoryRepositoryInterface) ChangeTrackerInterface {
	return f.ChangeTrackerInterface.Bind(failingHistory{HistoryRepositoryInterface: history, err: f.err})
}

func TestEquipmentService_ChangeStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.equipment.CreateEquipment(ctx, createDTO(), "Maria")
	require.NoError(t, err)

	res, err := f.equipment.ChangeStatus(ctx, created.ID, entities.StatusDecommissioned, "Ana")
	require.NoError(t, err)
	assert.Equal(t, "Desativado", res.StatusLabel)

	// Тот же статус - без записи в журнал.
	_, err = f.equipment.ChangeStatus(ctx, created.ID, entities.StatusDecommissioned, "Ana")
	require.NoError(t, err)

	history := historyOf(t, f)
	require.Len(t, history, 2)
	assert.Equal(t, entities.ChangeStatusChanged, history[0].ChangeType)

	_, err = f.equipment.ChangeStatus(ctx, created.ID, "broken", "Ana")
	var invalid *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalid)

	_, err = f.equipment.ChangeStatus(ctx, "ghost", entities.StatusActive, "Ana")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEquipmentService_Delete_CascadesAttachments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := createDTO()
	d.AssetNumber = "PROJ-001"
	created, err := f.equipment.CreateEquipment(ctx, d, "Maria")
	require.NoError(t, err)

	reader := pdfReader()
	att, err := f.attachments.Upload(ctx, created.ID, "manual.pdf", reader.Size(), reader, "Maria")
	require.NoError(t, err)
	require.Len(t, f.files.objects, 1)

	require.NoError(t, f.equipment.DeleteEquipment(ctx, created.ID, "Ana"))

	_, err = f.store.Equipment().FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = f.store.Attachments().FindByID(ctx, att.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, f.files.objects, "файл удален из хранилища")

	history := historyOf(t, f)
	assert.Equal(t, entities.ChangeDeleted, history[0].ChangeType)
	assert.Equal(t, "PROJ-001", *history[0].OldValue)

	// Журнал удаленной записи остается доступен.
	forDeleted, err := f.tracker.QueryHistory(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, forDeleted, 3)

	assert.ErrorIs(t, f.equipment.DeleteEquipment(ctx, created.ID, "Ana"), apperrors.ErrNotFound)
	assert.Len(t, historyOf(t, f), 3, "повторное удаление не пишет в журнал")
}

func TestEquipmentService_Delete_BlobFailureIsNotReturned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.equipment.CreateEquipment(ctx, createDTO(), "Maria")
	require.NoError(t, err)
	reader := pdfReader()
	_, err = f.attachments.Upload(ctx, created.ID, "manual.pdf", reader.Size(), reader, "Maria")
	require.NoError(t, err)

	f.files.failDel = true
	require.NoError(t, f.equipment.DeleteEquipment(ctx, created.ID, "Ana"))
	assert.Len(t, f.files.deleted, 1)
}

func TestEquipmentService_PopulateSampleData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.equipment.PopulateSampleData(ctx, sampleInventory(), "Sistema")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Inserted)
	assert.False(t, res.Skipped)
	assert.Len(t, historyOf(t, f), 5)

	res, err = f.equipment.PopulateSampleData(ctx, sampleInventory(), "Sistema")
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Zero(t, res.Inserted)
	assert.Len(t, historyOf(t, f), 5)
}

func TestEquipmentService_ImportRejectsWholeBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	records := sampleInventory()
	records[3].Value = -1

	_, err := f.equipment.ImportEquipment(ctx, records, "Sistema")
	var invalid *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalid)

	n, err := f.store.Equipment().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, historyOf(t, f))
}

func TestEquipmentService_GetEquipments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.equipment.PopulateSampleData(ctx, sampleInventory(), "Sistema")
	require.NoError(t, err)

	q, err := NewListQuery(types.Filter{
		Filter:         map[string]string{"status": "ativo"},
		Sort:           map[string]string{"value": "desc"},
		WithPagination: true,
		Limit:          2,
	})
	require.NoError(t, err)

	list, total, err := f.equipment.GetEquipments(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	require.Len(t, list, 2)
	assert.Equal(t, "COMP-001", list[0].AssetNumber)
	assert.Equal(t, "COMP-002", list[1].AssetNumber)

	_, err = NewListQuery(types.Filter{Filter: map[string]string{"status": "quebrado"}})
	assert.Error(t, err)
	_, err = NewListQuery(types.Filter{DateFrom: "ontem"})
	assert.Error(t, err)
}

func TestEquipmentService_MutationInvalidatesDashboardCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cache.Set(ctx, constants.CacheKeyDashboardStats, []byte(`{"totalEquipment":99}`), time.Hour))

	_, err := f.equipment.CreateEquipment(ctx, createDTO(), "Maria")
	require.NoError(t, err)

	_, err = f.cache.Get(ctx, constants.CacheKeyDashboardStats)
	assert.ErrorIs(t, err, repositories.ErrCacheMiss)
}

func TestEquipmentService_PublishesHistoryEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	received := make(chan string, 10)
	f.bus.Subscribe("equipment.history.recorded", func(ctx context.Context, e eventbus.Event) error {
		received <- e.Name()
		return nil
	})

	_, err := f.equipment.CreateEquipment(ctx, createDTO(), "Maria")
	require.NoError(t, err)

	select {
	case name := <-received:
		assert.Equal(t, "equipment.history.recorded", name)
	case <-time.After(time.Second):
		t.Fatal("событие не опубликовано")
	}
}

func TestEquipmentService_PostgresMalformedIDIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	logger := zap.NewNop()
	store := repositories.NewPostgresStore(db)
	tracker := NewChangeTracker(store.History(), logger)
	svc := NewEquipmentService(store, tracker, repositories.NewMemoryCacheRepository(), nil, nil, logger)

	_, err = svc.FindEquipment(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	mock.ExpectBegin()
	mock.ExpectRollback()
	brand := "HP"
	_, err = svc.UpdateEquipment(ctx, "not-a-uuid", dto.UpdateEquipmentDTO{Brand: &brand}, "Ana")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	mock.ExpectBegin()
	mock.ExpectRollback()
	assert.ErrorIs(t, svc.DeleteEquipment(ctx, "not-a-uuid", "Ana"), apperrors.ErrNotFound)

	history, err := tracker.QueryHistory(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, mock.ExpectationsWereMet())
}
