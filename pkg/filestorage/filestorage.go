package filestorage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStorageInterface stores uploaded files and returns the public path the
// client should use. Delete takes that same path.
type FileStorageInterface interface {
	Save(ctx context.Context, file io.Reader, originalFileName string, prefix string) (filePath string, err error)
	Delete(ctx context.Context, filePath string) error
}

// objectKey is prefix/YYYY/MM/DD/YYYY-MM-DD-<uuid><ext>.
func objectKey(now time.Time, originalFileName, prefix string) string {
	ext := strings.ToLower(filepath.Ext(originalFileName))
	name := fmt.Sprintf("%s-%s%s", now.Format("2006-01-02"), uuid.New().String(), ext)
	return path.Join(prefix, now.Format("2006/01/02"), name)
}

// relativeKey strips the public base and rejects keys that climb out of it.
func relativeKey(publicBase, filePath string) (string, error) {
	key := strings.TrimPrefix(filePath, strings.TrimSuffix(publicBase, "/")+"/")
	key = path.Clean(strings.TrimPrefix(key, "/"))
	if key == "." || key == ".." || strings.HasPrefix(key, "../") {
		return "", fmt.Errorf("file path %q is outside storage", filePath)
	}
	return key, nil
}
