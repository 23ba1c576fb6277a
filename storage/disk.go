package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"taskmarket/errors"
)

// DiskBlobStore keeps uploaded files under a root directory.
type DiskBlobStore struct {
	root string
	log  *slog.Logger
}

func NewDiskBlobStore(root string, log *slog.Logger) (*DiskBlobStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &DiskBlobStore{root: abs, log: log}, nil
}

// UploadBlob writes data under path, replacing any previous file, and returns
// a file URL. The write goes through a temporary file so readers never see
// a partial blob.
func (d *DiskBlobStore) UploadBlob(ctx context.Context, path string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Transient(err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", errors.ErrInvalidBlob)
	}
	target, err := d.resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", errors.Transient(err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", errors.Transient(err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", errors.Transient(err)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Transient(err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", errors.Transient(err)
	}

	d.log.Debug("Blob stored", "path", path, "size", len(data))
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(target)}).String(), nil
}

// resolve maps a slash separated blob path inside the root directory.
func (d *DiskBlobStore) resolve(path string) (string, error) {
	if path == "" || strings.HasPrefix(path, "/") || strings.Contains(path, "\\") ||
		strings.Contains(path, "..") {
		return "", fmt.Errorf("%w: blob path %q", errors.ErrInvalidBlob, path)
	}
	return filepath.Join(d.root, filepath.FromSlash(path)), nil
}
