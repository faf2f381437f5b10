package entities

import "time"

// ChangeType - вид события в журнале изменений.
type ChangeType string

const (
	ChangeCreated           ChangeType = "created"
	ChangeEdited            ChangeType = "edited"
	ChangeDeleted           ChangeType = "deleted"
	ChangeStatusChanged     ChangeType = "status-changed"
	ChangeAttachmentAdded   ChangeType = "attachment-added"
	ChangeAttachmentRemoved ChangeType = "attachment-removed"
)

var changeTypeLabels = map[ChangeType]string{
	ChangeCreated:           "criou",
	ChangeEdited:            "editou",
	ChangeDeleted:           "excluiu",
	ChangeStatusChanged:     "alterou status",
	ChangeAttachmentAdded:   "anexou arquivo",
	ChangeAttachmentRemoved: "removeu arquivo",
}

func (c ChangeType) IsValid() bool {
	_, ok := changeTypeLabels[c]
	return ok
}

// Label - подпись события для отчетов и ленты активности.
func (c ChangeType) Label() string {
	if label, ok := changeTypeLabels[c]; ok {
		return label
	}
	return string(c)
}

// HistoryEntry - неизменяемая запись журнала. EquipmentID остается и после
// удаления самого оборудования.
type HistoryEntry struct {
	ID          string     `json:"id" db:"id"`
	EquipmentID string     `json:"equipmentId" db:"equipment_id"`
	Timestamp   time.Time  `json:"timestamp" db:"timestamp"`
	User        string     `json:"user" db:"actor"`
	ChangeType  ChangeType `json:"changeType" db:"change_type"`
	Field       *string    `json:"field,omitempty" db:"field"`
	OldValue    *string    `json:"oldValue,omitempty" db:"old_value"`
	NewValue    *string    `json:"newValue,omitempty" db:"new_value"`
	ValueKind   *ValueKind `json:"valueKind,omitempty" db:"value_kind"`
}

// TypedOld/TypedNew восстанавливают типизированные значения для полевых записей.
func (h HistoryEntry) TypedOld() (FieldValue, error) {
	return ParseFieldValue(h.kind(), h.OldValue)
}

func (h HistoryEntry) TypedNew() (FieldValue, error) {
	return ParseFieldValue(h.kind(), h.NewValue)
}

func (h HistoryEntry) kind() ValueKind {
	if h.ValueKind == nil {
		return KindText
	}
	return *h.ValueKind
}
