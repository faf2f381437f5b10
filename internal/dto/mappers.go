package dto

import (
	"time"

	"inventory-system/internal/entities"
)

func NewEquipmentDTO(e entities.Equipment) EquipmentDTO {
	return EquipmentDTO{
		ID:              e.ID,
		AssetNumber:     e.AssetNumber,
		Description:     e.Description,
		Brand:           e.Brand,
		Model:           e.Model,
		Specs:           e.Specs,
		Status:          string(e.Status),
		StatusLabel:     e.Status.Label(),
		Location:        e.Location,
		Responsible:     e.Responsible,
		AcquisitionDate: e.AcquisitionDate.String(),
		Value:           e.Value,
		CreatedAt:       formatTime(e.CreatedAt),
		UpdatedAt:       formatTime(e.UpdatedAt),
	}
}

func NewEquipmentDTOs(list []entities.Equipment) []EquipmentDTO {
	out := make([]EquipmentDTO, 0, len(list))
	for _, e := range list {
		out = append(out, NewEquipmentDTO(e))
	}
	return out
}

func NewHistoryEntryDTO(h entities.HistoryEntry) HistoryEntryDTO {
	out := HistoryEntryDTO{
		ID:          h.ID,
		EquipmentID: h.EquipmentID,
		Timestamp:   formatTime(h.Timestamp),
		User:        h.User,
		ChangeType:  string(h.ChangeType),
		ChangeLabel: h.ChangeType.Label(),
		Field:       h.Field,
		OldValue:    h.OldValue,
		NewValue:    h.NewValue,
	}
	if h.ValueKind != nil {
		kind := string(*h.ValueKind)
		out.ValueKind = &kind
	}
	return out
}

func NewHistoryEntryDTOs(list []entities.HistoryEntry) []HistoryEntryDTO {
	out := make([]HistoryEntryDTO, 0, len(list))
	for _, h := range list {
		out = append(out, NewHistoryEntryDTO(h))
	}
	return out
}

// NewAttachmentDTO: url строит файловое хранилище, сущность хранит только ссылку.
func NewAttachmentDTO(a entities.Attachment, url string) AttachmentDTO {
	return AttachmentDTO{
		ID:          a.ID,
		EquipmentID: a.EquipmentID,
		Name:        a.Name,
		Size:        a.Size,
		MimeType:    a.MimeType,
		URL:         url,
		UploadedBy:  a.UploadedBy,
		UploadedAt:  formatTime(a.UploadedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
