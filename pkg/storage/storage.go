// Package storage defines the media store the catalog uploads logos and
// product images to. Implementations return a reference string (public URL)
// persisted on the owning row.
package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

const (
	FolderLogos    = "logos"
	FolderProducts = "productos"
)

// Object is one binary payload to store.
type Object struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores an object under folder and returns its reference.
type Uploader interface {
	Upload(ctx context.Context, folder string, obj Object) (string, error)
}

// ObjectKey builds a collision-free key that keeps the original extension.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(filename)))
	name := uuid.NewString() + ext
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
