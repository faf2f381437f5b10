// pkg/filestorage/local_filestorage.go

package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

type LocalFileStorage struct {
	basePath  string
	publicURL string
	now       func() time.Time
}

func NewLocalFileStorage(basePath, publicURL string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию: %w", err)
	}
	return &LocalFileStorage{basePath: basePath, publicURL: publicURL, now: time.Now}, nil
}

func (s *LocalFileStorage) Save(ctx context.Context, file io.Reader, originalFileName string, prefix string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := objectKey(s.now(), originalFileName, prefix)
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		_ = os.Remove(fullPath)
		return "", err
	}
	return key, nil
}

// Delete удаляет файл; отсутствующий файл не считается ошибкой.
func (s *LocalFileStorage) Delete(_ context.Context, ref string) error {
	relativePath := strings.TrimPrefix(ref, strings.TrimSuffix(s.publicURL, "/")+"/")
	if strings.Contains(relativePath, "..") {
		return fmt.Errorf("недопустимый путь файла: %s", ref)
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(relativePath))

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalFileStorage) URL(ref string) string {
	if s.publicURL == "" {
		return ref
	}
	return strings.TrimSuffix(s.publicURL, "/") + "/" + path.Clean(ref)
}
