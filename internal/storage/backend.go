package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrStorageIO is wrapped by every failure to read or write the history.
	ErrStorageIO = errors.New("history storage i/o error")

	// ErrCorruptHistory means the persisted data is not a JSON array of strings.
	ErrCorruptHistory = fmt.Errorf("%w: corrupt history data", ErrStorageIO)

	// ErrBlankEntry is returned by Add for empty or whitespace-only text.
	ErrBlankEntry = errors.New("history entry is blank")
)

// Backend persists the full history list. Save always replaces the whole
// sequence; implementations never append.
type Backend interface {
	Load() ([]string, error)
	Save(entries []string) error
	Path() string
	Close() error
}

// Kind names a Backend implementation in configuration.
type Kind string

const (
	KindJSON Kind = "json"
	KindBolt Kind = "bolt"
)

// NewBackend opens the backend of the given kind at path.
func NewBackend(kind Kind, path string) (Backend, error) {
	switch kind {
	case "", KindJSON:
		return NewJSONFileBackend(path)
	case KindBolt:
		return NewBoltBackend(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

// encodeEntries renders entries as a pretty-printed JSON array, keeping
// non-ASCII and HTML characters literal.
func encodeEntries(entries []string) ([]byte, error) {
	if entries == nil {
		entries = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func decodeEntries(data []byte) ([]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []string{}, nil
	}
	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptHistory, err)
	}
	if entries == nil {
		entries = []string{}
	}
	return entries, nil
}
