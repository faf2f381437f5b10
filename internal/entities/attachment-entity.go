package entities

import "time"

// Attachment - метаданные файла, прикрепленного к оборудованию.
// Сам файл лежит в файловом хранилище по LocationReference.
type Attachment struct {
	ID                string    `json:"id" db:"id"`
	EquipmentID       string    `json:"equipmentId" db:"equipment_id"`
	Name              string    `json:"name" db:"name"`
	Size              int64     `json:"size" db:"size"`
	MimeType          string    `json:"mimeType" db:"mime_type"`
	LocationReference string    `json:"locationReference" db:"location_reference"`
	UploadedBy        string    `json:"uploadedBy" db:"uploaded_by"`
	UploadedAt        time.Time `json:"uploadedAt" db:"uploaded_at"`
}
