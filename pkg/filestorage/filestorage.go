package filestorage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"inventory-system/pkg/config"
)

// FileStorageInterface - хранилище содержимого вложений. Возвращаемая ссылка
// непрозрачна для вызывающего и передается обратно в Delete и URL.
type FileStorageInterface interface {
	Save(ctx context.Context, file io.Reader, originalFileName string, prefix string) (ref string, err error)
	Delete(ctx context.Context, ref string) error
	URL(ref string) string
}

// New выбирает реализацию по FILES_DRIVER.
func New(ctx context.Context, cfg config.FilesConfig) (FileStorageInterface, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalFileStorage(cfg.LocalDir, cfg.PublicURL)
	case "s3":
		return NewS3FileStorage(ctx, cfg.S3, cfg.PublicURL)
	default:
		return nil, fmt.Errorf("неизвестный драйвер файлового хранилища: %q", cfg.Driver)
	}
}

// objectKey: prefix/2024/08/21/2024-08-21-<uuid>.ext
func objectKey(now time.Time, originalFileName, prefix string) string {
	ext := filepath.Ext(originalFileName)
	uniqueFileName := fmt.Sprintf("%s-%s%s", now.Format("2006-01-02"), uuid.New().String(), ext)
	return path.Join(prefix, now.Format("2006/01/02"), uniqueFileName)
}
