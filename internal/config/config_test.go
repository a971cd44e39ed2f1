// File: internal/config/config_test.go

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func withTempDirs(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	// Save original functions and restore them after the test
	origGetConfigDir := getConfigDir
	origGetDataDir := getDataDir
	t.Cleanup(func() {
		getConfigDir = origGetConfigDir
		getDataDir = origGetDataDir
	})

	getConfigDir = func() (string, error) {
		return filepath.Join(tempDir, "config"), nil
	}
	getDataDir = func() (string, error) {
		return filepath.Join(tempDir, "data"), nil
	}
	return tempDir
}

func TestLoad(t *testing.T) {
	tempDir := withTempDirs(t)

	// Test loading default config when file doesn't exist
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	configFile := filepath.Join(tempDir, "config", "config.yaml")
	if _, err := os.Stat(configFile); err != nil {
		t.Errorf("Expected default config to be written to %s: %v", configFile, err)
	}
	if cfg.History.MaxEntries != 100 {
		t.Errorf("Expected MaxEntries 100, got %d", cfg.History.MaxEntries)
	}
	if cfg.History.DisplayLimit != 50 {
		t.Errorf("Expected DisplayLimit 50, got %d", cfg.History.DisplayLimit)
	}
	if cfg.Clipboard.PollInterval != 2*time.Second {
		t.Errorf("Expected PollInterval 2s, got %v", cfg.Clipboard.PollInterval)
	}
	if cfg.Clipboard.SuppressWindow != time.Second {
		t.Errorf("Expected SuppressWindow 1s, got %v", cfg.Clipboard.SuppressWindow)
	}
	if cfg.UI.SearchDebounce != 300*time.Millisecond {
		t.Errorf("Expected SearchDebounce 300ms, got %v", cfg.UI.SearchDebounce)
	}
	if want := filepath.Join(tempDir, "data", "history.json"); cfg.HistoryPath() != want {
		t.Errorf("Expected history path %s, got %s", want, cfg.HistoryPath())
	}

	// Test loading existing config
	partial := "log:\n  level: debug\nclipboard:\n  poll_interval: 500ms\n"
	if err := os.WriteFile(configFile, []byte(partial), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(configFile)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected Log.Level debug, got %s", cfg.Log.Level)
	}
	if cfg.Clipboard.PollInterval != 500*time.Millisecond {
		t.Errorf("Expected PollInterval 500ms, got %v", cfg.Clipboard.PollInterval)
	}
	if cfg.Clipboard.SuppressWindow != time.Second {
		t.Errorf("Keys missing from the file should keep defaults, got SuppressWindow %v", cfg.Clipboard.SuppressWindow)
	}
}

func TestSave(t *testing.T) {
	tempDir := withTempDirs(t)
	configPath := filepath.Join(tempDir, "saved.yaml")

	cfg := DefaultConfig()
	cfg.Log.Level = "warn"
	cfg.Storage.Backend = "bolt"
	cfg.UI.StartMinimized = true
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read saved config: %v", err)
	}
	if !strings.Contains(string(data), "poll_interval: 2s") {
		t.Errorf("Expected durations to be written as strings, got:\n%s", data)
	}
	if strings.Contains(string(data), "system_paths") {
		t.Errorf("Resolved paths must not be persisted, got:\n%s", data)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Failed to decode saved config: %v", err)
	}
	loaded.SystemPaths = cfg.SystemPaths
	if !reflect.DeepEqual(cfg, &loaded) {
		t.Errorf("Saved config doesn't match original. Got %+v, want %+v", loaded, *cfg)
	}

	if want := filepath.Join(tempDir, "data", "history.db"); cfg.HistoryPath() != want {
		t.Errorf("Expected bolt history path %s, got %s", want, cfg.HistoryPath())
	}
}

func TestLoadConfigErrorHandling(t *testing.T) {
	tempDir := withTempDirs(t)

	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"malformed yaml", "log: [unterminated", "failed to parse"},
		{"zero max entries", "history:\n  max_entries: 0\n", "max_entries"},
		{"negative poll interval", "clipboard:\n  poll_interval: -1s\n", "poll_interval"},
		{"unknown storage backend", "storage:\n  backend: sqlite\n", "storage.backend"},
		{"unknown clipboard backend", "clipboard:\n  backend: x11\n", "clipboard.backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tempDir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("Expected error for %s", tt.name)
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("Expected error containing %q, got %v", tt.errPart, err)
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	withTempDirs(t)
	t.Setenv("CLIPHISTORY_POLL_INTERVAL", "750ms")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(KeyLogLevel, "", "")
	flags.String(KeyStorageBackend, "json", "")
	if err := flags.Parse([]string{"--log-level=debug"}); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.SetEnvPrefix("CLIPHISTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Storage.Backend = "bolt"
	if err := cfg.ApplyOverrides(v); err != nil {
		t.Fatalf("ApplyOverrides() failed: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Expected flag override debug, got %s", cfg.Log.Level)
	}
	if cfg.Clipboard.PollInterval != 750*time.Millisecond {
		t.Errorf("Expected env override 750ms, got %v", cfg.Clipboard.PollInterval)
	}
	if cfg.Storage.Backend != "bolt" {
		t.Errorf("Unchanged flag defaults must not override the file, got %s", cfg.Storage.Backend)
	}
}

func TestGetConfigPathsFromEnv(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("CLIPHISTORY_CONFIG_DIR", filepath.Join(tempDir, "cfg"))
	t.Setenv("CLIPHISTORY_DATA_DIR", filepath.Join(tempDir, "data"))
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(tempDir, "run"))

	paths, err := GetConfigPaths()
	if err != nil {
		t.Fatalf("GetConfigPaths() failed: %v", err)
	}
	if paths.ConfigFile != filepath.Join(tempDir, "cfg", "config.yaml") {
		t.Errorf("Unexpected config file %s", paths.ConfigFile)
	}
	if paths.HistoryFile != filepath.Join(tempDir, "data", "history.json") {
		t.Errorf("Unexpected history file %s", paths.HistoryFile)
	}
	if _, err := os.Stat(paths.DataDir); err != nil {
		t.Errorf("Expected data dir to be created: %v", err)
	}

	cfg := &Config{SystemPaths: *paths}
	if want := filepath.Join(tempDir, "run", "cliphistory.sock"); cfg.SocketPath() != want {
		t.Errorf("Expected socket %s, got %s", want, cfg.SocketPath())
	}
}
