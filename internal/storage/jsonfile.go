package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
)

// JSONFileBackend keeps the history in a single JSON file. Every Save writes a
// sibling temp file and renames it over the target, so readers only ever see
// a complete array.
type JSONFileBackend struct {
	path string
}

// NewJSONFileBackend prepares path for use, creating the parent directory and
// an empty "[]" file when nothing exists yet.
func NewJSONFileBackend(path string) (*JSONFileBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty history path", ErrStorageIO)
	}
	b := &JSONFileBackend{path: path}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create history directory: %v", ErrStorageIO, err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := b.Save(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", ErrStorageIO, path, err)
	}
	return b, nil
}

func (b *JSONFileBackend) Path() string { return b.path }

func (b *JSONFileBackend) Load() ([]string, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorageIO, b.path, err)
	}
	return decodeEntries(data)
}

func (b *JSONFileBackend) Save(entries []string) (err error) {
	data, err := encodeEntries(entries)
	if err != nil {
		return fmt.Errorf("%w: encode history: %v", ErrStorageIO, err)
	}

	tmpFile := b.path + ".tmp"
	defer func() {
		if err != nil {
			if rmErr := os.Remove(tmpFile); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				err = multierr.Append(err, rmErr)
			}
		}
	}()

	f, err := os.OpenFile(tmpFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrStorageIO, tmpFile, err)
	}
	if _, err = f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %v", ErrStorageIO, tmpFile, err)
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("%w: sync %s: %v", ErrStorageIO, tmpFile, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrStorageIO, tmpFile, err)
	}
	if err = os.Rename(tmpFile, b.path); err != nil {
		return fmt.Errorf("%w: move history into place: %v", ErrStorageIO, err)
	}
	return nil
}

// Quarantine moves an unreadable history file aside and returns its new name.
func (b *JSONFileBackend) Quarantine() (string, error) {
	dst := fmt.Sprintf("%s.corrupt-%d", b.path, time.Now().Unix())
	if err := os.Rename(b.path, dst); err != nil {
		return "", fmt.Errorf("%w: quarantine %s: %v", ErrStorageIO, b.path, err)
	}
	return dst, nil
}

func (b *JSONFileBackend) Close() error { return nil }
