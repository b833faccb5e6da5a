package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskObjectStore keeps uploaded files under a root directory and serves them
// from baseURL. Every object gets a fresh name so uploads never overwrite each other.
type DiskObjectStore struct {
	log     *slog.Logger
	root    string
	baseURL string
}

func NewDiskObjectStore(log *slog.Logger, root, baseURL string) (*DiskObjectStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &DiskObjectStore{log: log, root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Put writes the stream to disk and returns the URL it can be retrieved from.
// The object is named after the detected content, never after the client file name,
// since the file server derives the served Content-Type from the extension.
func (d *DiskObjectStore) Put(ctx context.Context, extension, contentType string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	objectName := uuid.NewString() + safeExtension(extension)
	path := filepath.Join(d.root, objectName)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating object: %w", err)
	}
	if _, err = io.Copy(file, r); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("writing object: %w", err)
	}
	if err = file.Close(); err != nil {
		return "", fmt.Errorf("closing object: %w", err)
	}

	d.log.Debug("Object stored", "name", objectName, "content_type", contentType)
	return d.baseURL + "/" + url.PathEscape(objectName), nil
}

// safeExtension keeps ".ext" made of lower-case letters and digits, anything else is dropped.
func safeExtension(extension string) string {
	extension = strings.ToLower(extension)
	if len(extension) < 2 || len(extension) > 8 || extension[0] != '.' {
		return ""
	}
	for _, r := range extension[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return extension
}
