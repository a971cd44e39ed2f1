// File: internal/config/config.go

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Resolved at load time, never written to the file.
	SystemPaths ConfigPaths `yaml:"-"`

	Log       LogConfig       `yaml:"log"`
	History   HistoryConfig   `yaml:"history"`
	Storage   StorageConfig   `yaml:"storage"`
	Clipboard ClipboardConfig `yaml:"clipboard"`
	UI        UIConfig        `yaml:"ui"`
	IPC       IPCConfig       `yaml:"ipc"`
}

// LogConfig holds logging-related configuration
type LogConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"` // "auto", "console" or "json"
	FileLogging bool   `yaml:"file_logging"`
}

// HistoryConfig bounds the stored and displayed history.
type HistoryConfig struct {
	File         string `yaml:"file,omitempty"` // empty means <data dir>/history.json
	MaxEntries   int    `yaml:"max_entries"`
	DisplayLimit int    `yaml:"display_limit"`
}

// StorageConfig selects the persistence backend ("json" or "bolt").
type StorageConfig struct {
	Backend string `yaml:"backend"`
}

// ClipboardConfig holds clipboard monitoring options
type ClipboardConfig struct {
	Backend        string        `yaml:"backend"` // "atotto", "native" or "headless"
	PollInterval   time.Duration `yaml:"poll_interval"`
	SuppressWindow time.Duration `yaml:"suppress_window"`
}

// UIConfig holds window behaviour.
type UIConfig struct {
	SearchDebounce time.Duration `yaml:"search_debounce"`
	StatusTimeout  time.Duration `yaml:"status_timeout"`
	StartMinimized bool          `yaml:"start_minimized"`
	Tray           bool          `yaml:"tray"`
}

// IPCConfig configures the local control socket.
type IPCConfig struct {
	Enabled    bool   `yaml:"enabled"`
	SocketPath string `yaml:"socket_path,omitempty"` // empty means <runtime dir>/cliphistory.sock
}

// Keys understood by ApplyOverrides. With a CLIPHISTORY_ env prefix and "-"
// replaced by "_" they double as environment variable names.
const (
	KeyLogLevel         = "log-level"
	KeyLogFormat        = "log-format"
	KeyHistoryFile      = "history-file"
	KeyMaxEntries       = "max-entries"
	KeyStorageBackend   = "storage-backend"
	KeyClipboardBackend = "clipboard-backend"
	KeyPollInterval     = "poll-interval"
	KeySocketPath       = "socket"
)

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	paths, err := GetConfigPaths()
	if err != nil {
		paths = &ConfigPaths{}
	}

	return &Config{
		SystemPaths: *paths,
		Log: LogConfig{
			Level:       "info",
			Format:      "auto",
			FileLogging: false,
		},
		History: HistoryConfig{
			MaxEntries:   100,
			DisplayLimit: 50,
		},
		Storage: StorageConfig{
			Backend: "json",
		},
		Clipboard: ClipboardConfig{
			Backend:        "atotto",
			PollInterval:   2 * time.Second,
			SuppressWindow: time.Second,
		},
		UI: UIConfig{
			SearchDebounce: 300 * time.Millisecond,
			StatusTimeout:  2 * time.Second,
			StartMinimized: false,
			Tray:           true,
		},
		IPC: IPCConfig{
			Enabled: true,
		},
	}
}

// Load loads the configuration from the specified file or creates default if not exists
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		configPath = cfg.SystemPaths.ConfigFile
	}
	if configPath == "" {
		return nil, errors.New("no config path could be determined")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Create default config if it doesn't exist
			if err := cfg.Save(configPath); err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Keys missing from the file keep their defaults.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// Save saves the configuration to the specified file
func (c *Config) Save(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects values the program cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.History.MaxEntries <= 0:
		return fmt.Errorf("history.max_entries must be positive, got %d", c.History.MaxEntries)
	case c.History.DisplayLimit <= 0:
		return fmt.Errorf("history.display_limit must be positive, got %d", c.History.DisplayLimit)
	case c.Clipboard.PollInterval <= 0:
		return fmt.Errorf("clipboard.poll_interval must be positive, got %s", c.Clipboard.PollInterval)
	case c.Clipboard.SuppressWindow <= 0:
		return fmt.Errorf("clipboard.suppress_window must be positive, got %s", c.Clipboard.SuppressWindow)
	case c.UI.SearchDebounce < 0:
		return fmt.Errorf("ui.search_debounce must not be negative, got %s", c.UI.SearchDebounce)
	}

	switch c.Storage.Backend {
	case "json", "bolt":
	default:
		return fmt.Errorf("storage.backend must be json or bolt, got %q", c.Storage.Backend)
	}
	switch c.Clipboard.Backend {
	case "atotto", "native", "headless":
	default:
		return fmt.Errorf("clipboard.backend must be atotto, native or headless, got %q", c.Clipboard.Backend)
	}
	return nil
}

// ApplyOverrides copies every key explicitly set in v (by flag or
// CLIPHISTORY_* environment variable) over the loaded values.
func (c *Config) ApplyOverrides(v *viper.Viper) error {
	if v.IsSet(KeyLogLevel) {
		c.Log.Level = v.GetString(KeyLogLevel)
	}
	if v.IsSet(KeyLogFormat) {
		c.Log.Format = v.GetString(KeyLogFormat)
	}
	if v.IsSet(KeyHistoryFile) {
		c.History.File = v.GetString(KeyHistoryFile)
	}
	if v.IsSet(KeyMaxEntries) {
		c.History.MaxEntries = v.GetInt(KeyMaxEntries)
	}
	if v.IsSet(KeyStorageBackend) {
		c.Storage.Backend = v.GetString(KeyStorageBackend)
	}
	if v.IsSet(KeyClipboardBackend) {
		c.Clipboard.Backend = v.GetString(KeyClipboardBackend)
	}
	if v.IsSet(KeyPollInterval) {
		c.Clipboard.PollInterval = v.GetDuration(KeyPollInterval)
	}
	if v.IsSet(KeySocketPath) {
		c.IPC.SocketPath = v.GetString(KeySocketPath)
	}
	return c.Validate()
}

// HistoryPath returns the history file in use.
func (c *Config) HistoryPath() string {
	if c.History.File != "" {
		return c.History.File
	}
	if c.Storage.Backend == "bolt" {
		return filepath.Join(c.SystemPaths.DataDir, "history.db")
	}
	return c.SystemPaths.HistoryFile
}

// SocketPath returns the IPC socket path in use.
func (c *Config) SocketPath() string {
	if c.IPC.SocketPath != "" {
		return c.IPC.SocketPath
	}
	return filepath.Join(c.SystemPaths.RuntimeDir, "cliphistory.sock")
}

// LogFile returns the log file used when file logging is enabled.
func (c *Config) LogFile() string {
	return filepath.Join(c.SystemPaths.LogDir, "cliphistory.log")
}
