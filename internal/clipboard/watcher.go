package clipboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/berrythewa/cliphistory/internal/types"
)

const (
	// DefaultPollInterval is the clipboard sampling period.
	DefaultPollInterval = 2000 * time.Millisecond

	// DefaultSuppressWindow is how long changes are ignored after a self-copy.
	DefaultSuppressWindow = 1000 * time.Millisecond

	readErrorWarnThreshold = 5
)

// WatcherOptions configure a Watcher. Zero values select the defaults.
type WatcherOptions struct {
	Interval       time.Duration
	SuppressWindow time.Duration
	Clock          clock.Clock
	Logger         *zap.Logger
	BackendName    string
}

// Watcher samples a Clipboard on a fixed period and reports text that was
// placed there by someone other than this program.
type Watcher struct {
	clipboard   Clipboard
	clock       clock.Clock
	logger      *zap.Logger
	interval    time.Duration
	window      time.Duration
	backendName string

	mu            sync.Mutex
	lastObserved  string
	suppressUntil time.Time
	running       bool
	changes       int
	lastChange    time.Time
	readErrors    int
	lastError     string
}

// NewWatcher returns a stopped Watcher for clip.
func NewWatcher(clip Clipboard, opts WatcherOptions) *Watcher {
	w := &Watcher{
		clipboard:   clip,
		clock:       opts.Clock,
		logger:      opts.Logger,
		interval:    opts.Interval,
		window:      opts.SuppressWindow,
		backendName: opts.BackendName,
	}
	if w.clock == nil {
		w.clock = clock.New()
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	if w.interval <= 0 {
		w.interval = DefaultPollInterval
	}
	if w.window <= 0 {
		w.window = DefaultSuppressWindow
	}
	return w
}

// Run samples the clipboard every interval and calls onChange with each new
// external text until ctx is done. Ticks never overlap: onChange runs on the
// polling goroutine and the next sample waits for it.
func (w *Watcher) Run(ctx context.Context, onChange func(text string)) error {
	ticker := w.clock.Ticker(w.interval)
	defer ticker.Stop()

	w.setRunning(true)
	defer w.setRunning(false)

	w.logger.Info("Starting clipboard watcher",
		zap.Duration("interval", w.interval),
		zap.Duration("suppress_window", w.window),
		zap.String("backend", w.backendName))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Clipboard watcher stopped")
			return nil
		case <-ticker.C:
			if text, changed := w.Check(); changed {
				onChange(text)
			}
		}
	}
}

// Check performs one sample. It reports a change only for non-blank text
// that differs from the last observed value while no self-copy is pending.
// Read errors count as "no change".
func (w *Watcher) Check() (string, bool) {
	text, err := w.clipboard.Read()

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.readErrors++
		w.lastError = err.Error()
		if w.readErrors == readErrorWarnThreshold {
			w.logger.Warn("Clipboard keeps failing to read",
				zap.Int("consecutive_errors", w.readErrors), zap.Error(err))
		} else {
			w.logger.Debug("Error reading clipboard", zap.Error(err))
		}
		return "", false
	}
	if w.readErrors > 0 {
		w.logger.Debug("Clipboard readable again", zap.Int("failed_reads", w.readErrors))
		w.readErrors = 0
	}

	if strings.TrimSpace(text) == "" || text == w.lastObserved || w.suppressedLocked() {
		return "", false
	}

	w.lastObserved = text
	w.changes++
	w.lastChange = w.clock.Now()
	w.logger.Debug("New clipboard content detected", zap.Int("length", len(text)))
	return text, true
}

// Suppress opens the self-copy window. Samples taken before it ends report
// nothing. Call it before writing to the clipboard.
func (w *Watcher) Suppress() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.suppressUntil = w.clock.Now().Add(w.window)
}

// MarkWritten records text as placed on the clipboard by this program, so it
// is not reported once the window ends either. Call it only after the write
// succeeded.
func (w *Watcher) MarkWritten(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastObserved = text
}

// Suppressed reports whether a self-copy window is open.
func (w *Watcher) Suppressed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.suppressedLocked()
}

func (w *Watcher) suppressedLocked() bool {
	return w.clock.Now().Before(w.suppressUntil)
}

func (w *Watcher) setRunning(running bool) {
	w.mu.Lock()
	w.running = running
	w.mu.Unlock()
}

// Interval returns the sampling period.
func (w *Watcher) Interval() time.Duration { return w.interval }

// Status returns a snapshot of the watcher counters.
func (w *Watcher) Status() types.WatcherStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return types.WatcherStatus{
		Running:    w.running,
		Backend:    w.backendName,
		Interval:   w.interval,
		Changes:    w.changes,
		LastChange: w.lastChange,
		ReadErrors: w.readErrors,
		LastError:  w.lastError,
		Suppressed: w.suppressedLocked(),
	}
}
