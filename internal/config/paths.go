package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Swapped in tests.
var (
	getConfigDir = defaultConfigDir
	getDataDir   = defaultDataDir
)

// ConfigPaths holds all relevant paths for the application
type ConfigPaths struct {
	BaseDir     string // Directory holding the config file
	ConfigFile  string // Path to config.yaml
	DataDir     string // Directory for application data
	HistoryFile string // Default history file
	LogDir      string // Directory for log files
	RuntimeDir  string // Directory for the IPC socket
}

// GetConfigPaths returns the platform-specific paths, creating the
// directories that must exist.
func GetConfigPaths() (*ConfigPaths, error) {
	baseDir, err := getConfigDir()
	if err != nil {
		return nil, err
	}
	dataDir, err := getDataDir()
	if err != nil {
		return nil, err
	}

	paths := &ConfigPaths{
		BaseDir:     baseDir,
		ConfigFile:  filepath.Join(baseDir, "config.yaml"),
		DataDir:     dataDir,
		HistoryFile: filepath.Join(dataDir, "history.json"),
		LogDir:      filepath.Join(dataDir, "logs"),
		RuntimeDir:  runtimeDir(),
	}

	for _, dir := range []string{paths.BaseDir, paths.DataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// defaultConfigDir honours CLIPHISTORY_CONFIG_DIR, then the OS config dir.
func defaultConfigDir() (string, error) {
	if dir := os.Getenv("CLIPHISTORY_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(configDir, "ClipHistory"), nil
	case "darwin":
		return filepath.Join(configDir, "com.berrythewa.cliphistory"), nil
	default:
		return filepath.Join(configDir, "cliphistory"), nil
	}
}

// defaultDataDir honours CLIPHISTORY_DATA_DIR, then the OS data location:
// %APPDATA%\ClipHistory, ~/Library/Application Support/ClipHistory or
// $XDG_DATA_HOME/cliphistory.
func defaultDataDir() (string, error) {
	if dir := os.Getenv("CLIPHISTORY_DATA_DIR"); dir != "" {
		return dir, nil
	}
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "ClipHistory"), nil
		}
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(configDir, "ClipHistory"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "ClipHistory"), nil
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "cliphistory"), nil
	}
	return filepath.Join(home, ".local", "share", "cliphistory"), nil
}

func runtimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}
