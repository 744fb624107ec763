package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"
)

type LocalFileStorage struct {
	basePath   string
	publicBase string
	now        func() time.Time
}

// NewLocalFileStorage writes under basePath; returned paths start with
// publicBase, which the router serves as static files.
func NewLocalFileStorage(basePath, publicBase string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalFileStorage{basePath: basePath, publicBase: publicBase, now: time.Now}, nil
}

func (s *LocalFileStorage) Save(_ context.Context, file io.Reader, originalFileName string, prefix string) (string, error) {
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
		os.Remove(fullPath)
		return "", err
	}

	return path.Join(s.publicBase, key), nil
}

// Delete treats a missing file as already deleted.
func (s *LocalFileStorage) Delete(_ context.Context, filePath string) error {
	key, err := relativeKey(s.publicBase, filePath)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.basePath, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
