package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/eventbus"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func ptr[T any](v T) *T { return &v }

func sampleInventory() []entities.Equipment {
	return []entities.Equipment{
		{AssetNumber: "COMP-001", Description: "Computador Desktop", Brand: "Dell", Model: "XPS 8500",
			Specs: ptr("Intel Core i7"), Status: entities.StatusActive, Location: "Escritório Principal",
			Responsible: "Maria Silva", AcquisitionDate: entities.NewDate(2023, time.January, 15), Value: 4500},
		{AssetNumber: "COMP-002", Description: "Computador Desktop", Brand: "HP", Model: "EliteDesk 800",
			Status: entities.StatusActive, Location: "Escritório Principal",
			Responsible: "João Santos", AcquisitionDate: entities.NewDate(2022, time.November, 5), Value: 4200},
		{AssetNumber: "MON-001", Description: "Monitor UltraWide", Brand: "LG", Model: "34WL500",
			Specs: ptr("34 polegadas"), Status: entities.StatusActive, Location: "Sala de Reuniões",
			Responsible: "Departamento de TI", AcquisitionDate: entities.NewDate(2023, time.March, 20), Value: 2800},
		{AssetNumber: "PROJ-001", Description: "Projetor", Brand: "Epson", Model: "PowerLite S41+",
			Specs: ptr("3300 lumens"), Status: entities.StatusMaintenance, Location: "Sala de Conferências",
			Responsible: "Departamento de TI", AcquisitionDate: entities.NewDate(2022, time.August, 12), Value: 3200},
		{AssetNumber: "PRINT-001", Description: "Impressora Multifuncional", Brand: "Brother", Model: "MFC-L3750CDW",
			Specs: ptr("Laser colorida"), Status: entities.StatusDecommissioned, Location: "Departamento Administrativo",
			Responsible: "Ana Oliveira", AcquisitionDate: entities.NewDate(2023, time.February, 8), Value: 2500},
	}
}

// failingHistory - журнал, который не принимает записи.
type failingHistory struct {
	repositories.HistoryRepositoryInterface
	err error
}

func (f failingHistory) Prepend(ctx context.Context, entries ...entities.HistoryEntry) error {
	return f.err
}

// fakeFiles - файловое хранилище в памяти.
type fakeFiles struct {
	mu      sync.Mutex
	objects map[string]string
	deleted []string
	failDel bool
	n       int
}

func newFakeFiles() *fakeFiles { return &fakeFiles{objects: map[string]string{}} }

func (f *fakeFiles) Save(ctx context.Context, file io.Reader, originalFileName string, prefix string) (string, error) {
	body, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	ref := fmt.Sprintf("%s/%d-%s", prefix, f.n, originalFileName)
	f.objects[ref] = string(body)
	return ref, nil
}

func (f *fakeFiles) Delete(ctx context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ref)
	if f.failDel {
		return fmt.Errorf("диск недоступен")
	}
	delete(f.objects, ref)
	return nil
}

func (f *fakeFiles) URL(ref string) string { return "/uploads/" + ref }

type fixture struct {
	store       repositories.Store
	tracker     *ChangeTracker
	cache       repositories.CacheRepositoryInterface
	files       *fakeFiles
	bus         *eventbus.Bus
	equipment   *EquipmentService
	attachments *AttachmentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	store := repositories.NewMemoryStore()
	tracker := NewChangeTracker(store.History(), logger,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs("h")),
	)
	cache := repositories.NewMemoryCacheRepository()
	files := newFakeFiles()
	bus := eventbus.New(logger)

	equipment := NewEquipmentService(store, tracker, cache, files, bus, logger)
	equipment.now = func() time.Time { return fixedNow }
	equipment.newID = sequentialIDs("eq")

	attachments := NewAttachmentService(store, tracker, files, bus, logger)
	attachments.now = func() time.Time { return fixedNow }
	attachments.newID = sequentialIDs("att")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = bus.Wait(ctx)
	})

	return &fixture{
		store: store, tracker: tracker, cache: cache, files: files, bus: bus,
		equipment: equipment, attachments: attachments,
	}
}

func pdfReader() *strings.Reader {
	return strings.NewReader("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
}
