package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported image type")

// Store keeps product images and hands back the URL the menu should use.
type Store interface {
	Save(ctx context.Context, filename string, r io.Reader, size int64) (string, error)
	// Delete removes an image previously returned by Save. URLs the store
	// does not own are ignored.
	Delete(ctx context.Context, url string) error
}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ObjectName derives a collision-free object name that keeps the upload's
// extension. Client supplied names never reach the filesystem or bucket.
func ObjectName(filename string) (name, contentType string, err error) {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(filename, `\`, "/")))
	ct, ok := contentTypes[ext]
	if !ok {
		return "", "", ErrUnsupportedType
	}
	return uuid.NewString() + ext, ct, nil
}
