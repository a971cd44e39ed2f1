package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/berrythewa/cliphistory/internal/config"
)

// PIDFile returns where a running instance records its PID.
func PIDFile(cfg *config.Config) string {
	return filepath.Join(cfg.SystemPaths.RuntimeDir, AppID+".pid")
}

// RunningPID reports the PID of another live instance using cfg, if any.
// It works whether or not that instance serves IPC.
func RunningPID(cfg *config.Config) (int, bool) {
	pid, ok := livePID(PIDFile(cfg))
	if !ok || pid == os.Getpid() {
		return 0, false
	}
	return pid, true
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644)
}

// removePIDFile removes the file only if it still names this process.
func removePIDFile(path string) error {
	pid, err := readPIDFile(path)
	if err != nil || pid != os.Getpid() {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID in file: %q", string(data))
	}
	return pid, nil
}

// livePID returns the PID recorded in path if that process still exists.
func livePID(path string) (int, bool) {
	pid, err := readPIDFile(path)
	if err != nil {
		return 0, false
	}
	return pid, processAlive(pid)
}
