package config

type UploadConfig struct {
	AllowedMimeTypes []string
	MaxSizeMB        int64
	PathPrefix       string
}

var UploadContexts = map[string]UploadConfig{
	"equipment_attachment": {
		AllowedMimeTypes: []string{
			"image/jpeg", "image/png", "image/gif", "image/webp",
			"application/pdf", "text/plain; charset=utf-8",
			"application/zip", // docx/xlsx определяются как zip
		},
		MaxSizeMB:  20,
		PathPrefix: "equipment",
	},
	"inventory_import": {
		AllowedMimeTypes: []string{"application/zip"},
		MaxSizeMB:        10,
		PathPrefix:       "imports",
	},
}
