// Package history coordinates the clipboard watcher, the history store and
// the presentation layer.
package history

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/berrythewa/cliphistory/internal/autostart"
	"github.com/berrythewa/cliphistory/internal/clipboard"
	"github.com/berrythewa/cliphistory/internal/storage"
)

const (
	// DefaultDisplayLimit caps the presented list; the store keeps more.
	DefaultDisplayLimit = 50

	// DefaultSearchDebounce is the quiet period before a search runs.
	DefaultSearchDebounce = 300 * time.Millisecond
)

// ErrNoRegistrar is returned by autostart operations when none is configured.
var ErrNoRegistrar = errors.New("autostart is not available")

// Options configure a Controller. Zero values select the defaults.
type Options struct {
	DisplayLimit   int
	SearchDebounce time.Duration
	Clock          clock.Clock
	Logger         *zap.Logger
	Registrar      autostart.Registrar
	// Executable resolves the path registered for autostart.
	Executable func() (string, error)
}

// Controller is the single writer of the history store while the program
// runs. Every request is serialised; the view is only updated after the
// store accepted the change.
type Controller struct {
	store      *storage.Store
	clipboard  clipboard.Clipboard
	suppressor Suppressor
	presenter  Presenter
	registrar  autostart.Registrar
	executable func() (string, error)
	clock      clock.Clock
	logger     *zap.Logger

	displayLimit   int
	searchDebounce time.Duration

	mu          sync.Mutex
	displayed   []string
	query       string
	searchTimer *clock.Timer
	searchSeq   uint64
	closed      bool
}

func NewController(store *storage.Store, clip clipboard.Clipboard, suppressor Suppressor, presenter Presenter, opts Options) *Controller {
	c := &Controller{
		store:          store,
		clipboard:      clip,
		suppressor:     suppressor,
		presenter:      presenter,
		registrar:      opts.Registrar,
		executable:     opts.Executable,
		clock:          opts.Clock,
		logger:         opts.Logger,
		displayLimit:   opts.DisplayLimit,
		searchDebounce: opts.SearchDebounce,
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.executable == nil {
		c.executable = os.Executable
	}
	if c.displayLimit <= 0 {
		c.displayLimit = DefaultDisplayLimit
	}
	if c.searchDebounce <= 0 {
		c.searchDebounce = DefaultSearchDebounce
	}
	return c
}

// Refresh rebuilds the view from the store using the current query.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showLocked(c.query)
}

// OnExternalChange records text copied by another program and shows it at
// the top. Text that is already displayed is left where it is.
func (c *Controller) OnExternalChange(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Text already on screen is neither recorded again nor moved.
	if c.displayedIndex(text) >= 0 {
		c.logger.Debug("Clipboard text already displayed", zap.Int("length", len(text)))
		return nil
	}

	if err := c.store.Add(text); err != nil {
		if errors.Is(err, storage.ErrBlankEntry) {
			return err
		}
		c.logger.Error("Failed to record clipboard change", zap.Error(err))
		c.notify(MsgSaveFailed)
		return err
	}

	c.displayed = append([]string{text}, c.displayed...)
	c.presenter.Prepend(text)
	if len(c.displayed) > c.displayLimit {
		dropped := c.displayed[len(c.displayed)-1]
		c.displayed = c.displayed[:len(c.displayed)-1]
		c.presenter.Remove(dropped)
	}
	c.notify(MsgNewText)
	return nil
}

// RequestCopy puts text back on the clipboard without recording it again.
func (c *Controller) RequestCopy(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Suppress before the write so no sample can observe the new value first.
	if c.suppressor != nil {
		c.suppressor.Suppress()
	}
	if err := c.clipboard.Write(text); err != nil {
		c.logger.Warn("Failed to copy entry to clipboard", zap.Error(err))
		c.notify(MsgCopyFailed)
		return err
	}
	if c.suppressor != nil {
		c.suppressor.MarkWritten(text)
	}
	c.logger.Debug("Entry copied to clipboard", zap.Int("length", len(text)))
	c.notify(MsgCopied)
	return nil
}

// RequestDelete removes text from the store and the view.
func (c *Controller) RequestDelete(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.store.Delete(text); err != nil {
		c.logger.Error("Failed to delete history entry", zap.Error(err))
		c.notify(MsgSaveFailed)
		return err
	}
	if i := c.displayedIndex(text); i >= 0 {
		c.displayed = append(c.displayed[:i], c.displayed[i+1:]...)
		c.presenter.Remove(text)
	}
	c.notify(MsgRemoved)
	return nil
}

// RequestClear empties the store and the view.
func (c *Controller) RequestClear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Clear(); err != nil {
		c.logger.Error("Failed to clear history", zap.Error(err))
		c.notify(MsgSaveFailed)
		return err
	}
	c.displayed = nil
	c.presenter.Clear()
	c.notify(MsgCleared)
	return nil
}

// Search shows the entries matching query once no further Search call has
// arrived for the debounce period. Blank queries show everything.
func (c *Controller) Search(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.searchTimer != nil {
		c.searchTimer.Stop()
	}
	c.searchSeq++
	seq := c.searchSeq
	c.searchTimer = c.clock.AfterFunc(c.searchDebounce, func() {
		c.runSearch(seq, query)
	})
}

func (c *Controller) runSearch(seq uint64, query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A later Search or Close superseded this one.
	if seq != c.searchSeq || c.closed {
		return
	}
	c.searchTimer = nil
	c.query = query
	if strings.TrimSpace(query) == "" {
		c.notify(MsgShowingAll)
	} else {
		c.notify(fmt.Sprintf(MsgSearchingFmt, query))
	}
	c.showLocked(query)
}

// showLocked replaces the view with the first displayLimit matches.
func (c *Controller) showLocked(query string) {
	if strings.TrimSpace(query) == "" {
		query = ""
	}
	entries := c.store.Entries(query)
	if len(entries) > c.displayLimit {
		entries = entries[:c.displayLimit]
	}
	c.displayed = entries

	view := make([]string, len(entries))
	copy(view, entries)
	c.presenter.ReplaceAll(view)
}

// Displayed returns the entries currently shown, top first.
func (c *Controller) Displayed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.displayed))
	copy(out, c.displayed)
	return out
}

// Query returns the search applied to the current view.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// AutostartEnabled reports whether the program is registered to start at login.
func (c *Controller) AutostartEnabled() (bool, error) {
	if c.registrar == nil {
		return false, ErrNoRegistrar
	}
	return c.registrar.IsEnabled()
}

// SetAutostart registers or unregisters the running executable. Failures are
// reported as a status line and returned; they never affect the history.
func (c *Controller) SetAutostart(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.setAutostartLocked(enabled)
	if err != nil {
		c.logger.Warn("Failed to update autostart", zap.Bool("enabled", enabled), zap.Error(err))
		c.notify(MsgAutostartFailed)
		return err
	}
	if enabled {
		c.notify(MsgAutostartOn)
	} else {
		c.notify(MsgAutostartOff)
	}
	return nil
}

func (c *Controller) setAutostartLocked(enabled bool) error {
	if c.registrar == nil {
		return ErrNoRegistrar
	}
	if !enabled {
		return c.registrar.Disable()
	}
	exe, err := c.executable()
	if err != nil {
		return fmt.Errorf("%w: resolve executable: %v", autostart.ErrRegistration, err)
	}
	return c.registrar.Enable(exe)
}

// Close cancels a pending search.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.searchSeq++
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
}

func (c *Controller) displayedIndex(text string) int {
	for i, e := range c.displayed {
		if e == text {
			return i
		}
	}
	return -1
}

func (c *Controller) notify(msg string) {
	c.logger.Debug("Status", zap.String("message", msg))
	if n, ok := c.presenter.(Notifier); ok {
		n.Notify(msg)
	}
}
