package types

import "time"

// WatcherStatus is a snapshot of the clipboard watcher.
type WatcherStatus struct {
	Running    bool          `json:"running"`
	Backend    string        `json:"backend"`
	Interval   time.Duration `json:"interval"`
	Changes    int           `json:"changes"`
	LastChange time.Time     `json:"last_change,omitempty"`
	ReadErrors int           `json:"read_errors"`
	LastError  string        `json:"last_error,omitempty"`
	Suppressed bool          `json:"suppressed"`
}

// InstanceStatus is what a running instance reports over IPC.
type InstanceStatus struct {
	PID         int           `json:"pid"`
	Version     string        `json:"version"`
	StartedAt   time.Time     `json:"started_at"`
	HistoryPath string        `json:"history_path"`
	Entries     int           `json:"entries"`
	MaxEntries  int           `json:"max_entries"`
	Watcher     WatcherStatus `json:"watcher"`
}
