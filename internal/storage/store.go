// Package storage holds the clipboard history: an ordered, deduplicated,
// size-bounded list of text entries, most recent first, persisted in full on
// every mutation.
package storage

import (
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// DefaultMaxEntries bounds the persisted history.
const DefaultMaxEntries = 100

// Options tune a Store.
type Options struct {
	MaxEntries int
	Logger     *zap.Logger
}

type quarantiner interface {
	Quarantine() (string, error)
}

// Store is the in-memory view of the history backed by a Backend. After every
// successful mutation the backend holds exactly the in-memory list; when a
// write fails the in-memory list is left unchanged.
type Store struct {
	mu         sync.RWMutex
	backend    Backend
	entries    []string
	maxEntries int
	logger     *zap.Logger
}

// Open creates the backend of the given kind at path and loads it.
func Open(kind Kind, path string, opts Options) (*Store, error) {
	backend, err := NewBackend(kind, path)
	if err != nil {
		return nil, err
	}
	s, err := NewStore(backend, opts)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return s, nil
}

// NewStore loads the history from backend. Unparseable data is moved aside
// and replaced by an empty history.
func NewStore(backend Backend, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	s := &Store{
		backend:    backend,
		maxEntries: maxEntries,
		logger:     logger,
	}

	entries, err := backend.Load()
	switch {
	case errors.Is(err, ErrCorruptHistory):
		logger.Warn("History data is corrupt, starting with an empty history",
			zap.String("path", backend.Path()), zap.Error(err))
		if q, ok := backend.(quarantiner); ok {
			moved, qerr := q.Quarantine()
			if qerr != nil {
				return nil, qerr
			}
			logger.Info("Corrupt history preserved", zap.String("path", moved))
		}
		if err := backend.Save(nil); err != nil {
			return nil, err
		}
		entries = nil
	case err != nil:
		return nil, err
	}

	s.entries = normalize(entries, maxEntries)
	logger.Debug("History loaded",
		zap.String("path", backend.Path()),
		zap.Int("entries", len(s.entries)),
		zap.Int("max_entries", maxEntries))
	return s, nil
}

// normalize drops later duplicates and truncates to max.
func normalize(entries []string, max int) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
		if len(out) == max {
			break
		}
	}
	return out
}

// IsBlank reports whether text is empty after trimming whitespace.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// Add moves text to the front of the history, inserting it if new, and drops
// the oldest entries beyond the limit.
func (s *Store) Add(text string) error {
	if IsBlank(text) {
		return ErrBlankEntry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]string, 0, len(s.entries)+1)
	next = append(next, text)
	for _, e := range s.entries {
		if e != text {
			next = append(next, e)
		}
	}
	if len(next) > s.maxEntries {
		next = next[:s.maxEntries]
	}
	return s.commit(next)
}

// Entries returns a copy of the history. A non-empty search keeps only the
// entries containing it, ignoring case, in history order.
func (s *Store) Entries(search string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if search == "" {
		out := make([]string, len(s.entries))
		copy(out, s.entries)
		return out
	}

	needle := strings.ToLower(search)
	out := make([]string, 0)
	for _, e := range s.entries {
		if strings.Contains(strings.ToLower(e), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Delete removes every entry equal to text and persists the result, even when
// nothing matched. It reports whether anything was removed.
func (s *Store) Delete(text string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		if e != text {
			next = append(next, e)
		}
	}
	removed := len(next) != len(s.entries)
	if err := s.commit(next); err != nil {
		return false, err
	}
	return removed, nil
}

// Clear empties the history.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit([]string{})
}

// commit persists next and adopts it as the current history. Callers hold mu.
func (s *Store) commit(next []string) error {
	if err := s.backend.Save(next); err != nil {
		s.logger.Error("Failed to persist history",
			zap.String("path", s.backend.Path()), zap.Error(err))
		return err
	}
	s.entries = next
	return nil
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Contains reports whether text is stored verbatim.
func (s *Store) Contains(text string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e == text {
			return true
		}
	}
	return false
}

// MaxEntries returns the history bound.
func (s *Store) MaxEntries() int { return s.maxEntries }

// Path returns where the backend persists the history.
func (s *Store) Path() string { return s.backend.Path() }

// Close releases the backend.
func (s *Store) Close() error { return s.backend.Close() }
