// Package storage provides the disk blob backend for file uploads.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kamrel/kamrel/internal/file/domain"
)

// Disk stores blobs under root, one file per key. Keys are relative
// paths like "42/175928847299117063_rapport.pdf".
type Disk struct {
	root string
}

func NewDisk(root string) (*Disk, error) {
	if strings.TrimSpace(root) == "" {
		root = "files"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create files dir: %w", err)
	}
	return &Disk{root: root}, nil
}

func (d *Disk) Save(ctx context.Context, key string, content io.Reader) (int64, error) {
	path, err := d.resolve(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}

	// Write to a temp file first so a failed upload never leaves a
	// partial blob under the final key.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return 0, err
	}
	written, err := io.Copy(tmp, content)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	return written, nil
}

func (d *Disk) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := d.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, domain.ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (d *Disk) Delete(ctx context.Context, key string) error {
	path, err := d.resolve(key)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// resolve rejects keys that would escape the root directory.
func (d *Disk) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", domain.ErrInvalidFileName
	}
	return filepath.Join(d.root, cleaned), nil
}

var _ domain.Storage = (*Disk)(nil)
