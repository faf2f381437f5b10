package repositories

import (
	"context"
	"sync"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

// memoryData - содержимое in-memory хранилища.
type memoryData struct {
	equipment map[string]entities.Equipment
	order     []string
	history   []entities.HistoryEntry
	files     map[string]entities.Attachment
	fileOrder []string
}

type memoryState struct {
	mu sync.RWMutex
	memoryData
}

func (st *memoryState) snapshot() memoryData {
	st.mu.RLock()
	defer st.mu.RUnlock()

	cp := memoryData{
		equipment: make(map[string]entities.Equipment, len(st.equipment)),
		order:     append([]string(nil), st.order...),
		history:   append([]entities.HistoryEntry(nil), st.history...),
		files:     make(map[string]entities.Attachment, len(st.files)),
		fileOrder: append([]string(nil), st.fileOrder...),
	}
	for k, v := range st.equipment {
		cp.equipment[k] = v
	}
	for k, v := range st.files {
		cp.files[k] = v
	}
	return cp
}

func (st *memoryState) restore(cp memoryData) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.memoryData = cp
}

type memoryStore struct {
	state *memoryState
	txMu  *sync.Mutex
	inTx  bool
}

// NewMemoryStore - хранилище в памяти процесса (для тестов и локального запуска).
func NewMemoryStore() Store {
	return &memoryStore{
		state: &memoryState{memoryData: memoryData{
			equipment: make(map[string]entities.Equipment),
			files:     make(map[string]entities.Attachment),
		}},
		txMu: &sync.Mutex{},
	}
}

func (s *memoryStore) Equipment() EquipmentRepositoryInterface    { return memoryEquipment{s.state} }
func (s *memoryStore) History() HistoryRepositoryInterface        { return memoryHistory{s.state} }
func (s *memoryStore) Attachments() AttachmentRepositoryInterface { return memoryAttachments{s.state} }

// RunInTransaction сериализует единицы работы и при ошибке откатывает состояние к снимку.
func (s *memoryStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	cp := s.state.snapshot()
	err := fn(ctx, &memoryStore{state: s.state, txMu: s.txMu, inTx: true})
	if err != nil {
		s.state.restore(cp)
	}
	return err
}

type memoryEquipment struct{ st *memoryState }

func (r memoryEquipment) FindAll(ctx context.Context) ([]entities.Equipment, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	result := make([]entities.Equipment, 0, len(r.st.order))
	for _, id := range r.st.order {
		result = append(result, r.st.equipment[id])
	}
	return result, nil
}

func (r memoryEquipment) FindByID(ctx context.Context, id string) (*entities.Equipment, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	e, ok := r.st.equipment[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (r memoryEquipment) Create(ctx context.Context, e entities.Equipment) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, exists := r.st.equipment[e.ID]; exists {
		return apperrors.ErrConflict
	}
	r.st.equipment[e.ID] = e
	r.st.order = append(r.st.order, e.ID)
	return nil
}

func (r memoryEquipment) Update(ctx context.Context, e entities.Equipment) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, exists := r.st.equipment[e.ID]; !exists {
		return apperrors.ErrNotFound
	}
	r.st.equipment[e.ID] = e
	return nil
}

func (r memoryEquipment) Delete(ctx context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, exists := r.st.equipment[id]; !exists {
		return apperrors.ErrNotFound
	}
	delete(r.st.equipment, id)
	r.st.order = removeID(r.st.order, id)
	return nil
}

func (r memoryEquipment) Count(ctx context.Context) (int, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return len(r.st.equipment), nil
}

type memoryHistory struct{ st *memoryState }

func (r memoryHistory) Prepend(ctx context.Context, entries ...entities.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	next := make([]entities.HistoryEntry, 0, len(entries)+len(r.st.history))
	for i := len(entries) - 1; i >= 0; i-- {
		next = append(next, entries[i])
	}
	r.st.history = append(next, r.st.history...)
	return nil
}

func (r memoryHistory) FindAll(ctx context.Context, limit int) ([]entities.HistoryEntry, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	n := len(r.st.history)
	if limit > 0 && limit < n {
		n = limit
	}
	return append([]entities.HistoryEntry{}, r.st.history[:n]...), nil
}

func (r memoryHistory) FindByEquipmentID(ctx context.Context, equipmentID string) ([]entities.HistoryEntry, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	result := make([]entities.HistoryEntry, 0)
	for _, h := range r.st.history {
		if h.EquipmentID == equipmentID {
			result = append(result, h)
		}
	}
	return result, nil
}

type memoryAttachments struct{ st *memoryState }

func (r memoryAttachments) Create(ctx context.Context, a entities.Attachment) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, exists := r.st.files[a.ID]; exists {
		return apperrors.ErrConflict
	}
	r.st.files[a.ID] = a
	r.st.fileOrder = append(r.st.fileOrder, a.ID)
	return nil
}

func (r memoryAttachments) FindByID(ctx context.Context, id string) (*entities.Attachment, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	a, ok := r.st.files[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

// FindByEquipmentID - новые вложения первыми, как в postgres.
func (r memoryAttachments) FindByEquipmentID(ctx context.Context, equipmentID string) ([]entities.Attachment, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	result := make([]entities.Attachment, 0)
	for i := len(r.st.fileOrder) - 1; i >= 0; i-- {
		a := r.st.files[r.st.fileOrder[i]]
		if a.EquipmentID == equipmentID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r memoryAttachments) Delete(ctx context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.files[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.st.files, id)
	r.st.fileOrder = removeID(r.st.fileOrder, id)
	return nil
}

func (r memoryAttachments) DeleteByEquipmentID(ctx context.Context, equipmentID string) ([]entities.Attachment, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	removed := make([]entities.Attachment, 0)
	kept := r.st.fileOrder[:0:0]
	for _, id := range r.st.fileOrder {
		a := r.st.files[id]
		if a.EquipmentID == equipmentID {
			removed = append(removed, a)
			delete(r.st.files, id)
			continue
		}
		kept = append(kept, id)
	}
	r.st.fileOrder = kept
	return removed, nil
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
