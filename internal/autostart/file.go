package autostart

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileRegistrar manages a single autostart file, such as an XDG desktop
// entry or a LaunchAgent plist.
type FileRegistrar struct {
	path   string
	render func(executablePath string) []byte
	// escape maps a path to the form render embeds it in.
	escape func(executablePath string) string
}

func (r *FileRegistrar) Path() string { return r.path }

// IsEnabled reports whether the file exists and launches the running
// executable.
func (r *FileRegistrar) IsEnabled() (bool, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %v", ErrRegistration, r.path, err)
	}
	exe, err := executable()
	if err != nil {
		return false, fmt.Errorf("%w: resolve executable: %v", ErrRegistration, err)
	}
	return bytes.Contains(data, []byte(r.escape(exe))), nil
}

func (r *FileRegistrar) Enable(executablePath string) error {
	if executablePath == "" {
		return fmt.Errorf("%w: empty executable path", ErrRegistration)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrRegistration, filepath.Dir(r.path), err)
	}

	// Atomic write: write to temp file, then move
	tmpFile := r.path + ".tmp"
	if err := os.WriteFile(tmpFile, r.render(executablePath), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrRegistration, tmpFile, err)
	}
	if err := os.Rename(tmpFile, r.path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("%w: move %s into place: %v", ErrRegistration, r.path, err)
	}
	return nil
}

func (r *FileRegistrar) Disable() error {
	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: remove %s: %v", ErrRegistration, r.path, err)
	}
	return nil
}
