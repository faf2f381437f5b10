package dto

type AttachmentDTO struct {
	ID          string `json:"id"`
	EquipmentID string `json:"equipmentId"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	MimeType    string `json:"mimeType"`
	URL         string `json:"url"`
	UploadedBy  string `json:"uploadedBy"`
	UploadedAt  string `json:"uploadedAt"`
}
