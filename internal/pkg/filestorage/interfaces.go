package filestorage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// maxSlugLen bounds the readable part of an object name
const maxSlugLen = 48

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// Save stores an uploaded file under subdir and returns a stable reference to it
	Save(ctx context.Context, fileHeader *multipart.FileHeader, subdir string) (string, error)

	// Delete removes a file by the reference Save returned. Missing files are not an error.
	Delete(ctx context.Context, reference string) error
}

// objectKey builds a collision-free key from a uuid and a slug of the original name,
// keeping the extension
func objectKey(subdir, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.New().String()
	if s := slug.Make(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))); s != "" {
		if len(s) > maxSlugLen {
			s = strings.TrimRight(s[:maxSlugLen], "-")
		}
		name += "-" + s
	}
	name += ext
	if subdir == "" {
		return name
	}
	return path.Join(strings.Trim(subdir, "/"), name)
}

// joinURL joins a public base URL and an object key
func joinURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(key, "/")
}

// keyFromReference strips baseURL from reference and rejects traversal
func keyFromReference(baseURL, reference string) (string, error) {
	key := reference
	if baseURL != "" {
		key = strings.TrimPrefix(key, strings.TrimRight(baseURL, "/"))
	}
	key = strings.TrimLeft(key, "/")
	cleaned := path.Clean(key)
	if key == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid file reference: %s", reference)
	}
	return cleaned, nil
}
