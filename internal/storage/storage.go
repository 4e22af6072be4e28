// Package storage stores uploaded book files, covers and profile photos by key.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotExist = errors.New("storage: file does not exist")

// Files is implemented by the disk and B2 drivers. Keys are slash-separated.
type Files interface {
	Save(ctx context.Context, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Folders the application writes into.
const (
	FolderBooks    = "books"
	FolderCovers   = "covers"
	FolderPhotos   = "photos"
	FolderRequests = "requests"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		name = "file"
	}
	return unsafeChars.ReplaceAllString(name, "_")
}

// NewKey builds a unique key under folder that keeps the original file name readable.
func NewKey(folder, filename string) string {
	return fmt.Sprintf("%s/%s-%s-%s", folder, time.Now().Format("20060102"), uuid.NewString(), sanitizeFilename(filename))
}

// cleanKey rejects keys that would leave the storage root.
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.ReplaceAll(key, `\`, "/"))
	k = strings.TrimPrefix(k, "/")
	if k == "" || k == "." {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return k, nil
}
