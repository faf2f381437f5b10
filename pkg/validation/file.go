package validation

import (
	"fmt"
	"io"
	"net/http"
	"slices"

	"inventory-system/config"
	apperrors "inventory-system/pkg/errors"
)

// ValidateFile проверяет размер и MIME-тип файла по правилам из config.UploadContexts.
// Возвращает определенный MIME-тип; курсор file остается в начале.
func ValidateFile(size int64, file io.ReadSeeker, contextName string) (string, error) {
	rules, ok := config.UploadContexts[contextName]
	if !ok {
		return "", fmt.Errorf("внутренняя ошибка: неизвестный контекст загрузки '%s'", contextName)
	}

	if rules.MaxSizeMB > 0 {
		maxSizeBytes := rules.MaxSizeMB * 1024 * 1024
		if size > maxSizeBytes {
			return "", fmt.Errorf("%w: %.2f MB при лимите %d MB", apperrors.ErrFileTooLarge, float64(size)/1024/1024, rules.MaxSizeMB)
		}
	}

	// Magic numbers: первые 512 байт.
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("ошибка чтения файла: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("ошибка обработки файла: %w", err)
	}

	mimeType := http.DetectContentType(buffer[:n])
	if !slices.Contains(rules.AllowedMimeTypes, mimeType) {
		return "", fmt.Errorf("%w: %s", apperrors.ErrFileTypeRejected, mimeType)
	}
	return mimeType, nil
}

// PathPrefix - каталог в файловом хранилище для контекста.
func PathPrefix(contextName string) string {
	return config.UploadContexts[contextName].PathPrefix
}
