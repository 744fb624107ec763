package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"

	"repair-office/pkg/config"
	apperrors "repair-office/pkg/errors"
)

// ValidateFile checks size and sniffed content type against the rules of
// contextName, then rewinds file.
func ValidateFile(fileHeader *multipart.FileHeader, file io.ReadSeeker, contextName string) error {
	rules, ok := config.UploadContexts[contextName]
	if !ok {
		return fmt.Errorf("unknown upload context: %s", contextName)
	}

	if rules.MaxSizeMB > 0 && fileHeader.Size > rules.MaxSizeMB*1024*1024 {
		return apperrors.NewInvalidInputError("file %q (%d KB) exceeds %d MB", fileHeader.Filename, fileHeader.Size/1024, rules.MaxSizeMB)
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("read %q: %w", fileHeader.Filename, err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %q: %w", fileHeader.Filename, err)
	}

	mimeType := http.DetectContentType(buffer[:n])
	if !slices.Contains(rules.AllowedMimeTypes, mimeType) {
		return apperrors.NewInvalidInputError("file %q has unsupported type %s", fileHeader.Filename, mimeType)
	}
	return nil
}
