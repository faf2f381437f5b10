package dto

type HistoryEntryDTO struct {
	ID          string  `json:"id"`
	EquipmentID string  `json:"equipmentId"`
	Timestamp   string  `json:"timestamp"`
	User        string  `json:"user"`
	ChangeType  string  `json:"changeType"`
	ChangeLabel string  `json:"changeLabel"`
	Field       *string `json:"field,omitempty"`
	OldValue    *string `json:"oldValue,omitempty"`
	NewValue    *string `json:"newValue,omitempty"`
	ValueKind   *string `json:"valueKind,omitempty"`
}
