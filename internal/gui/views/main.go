// Package views holds the history window content.
package views

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/berrythewa/cliphistory/internal/history"
	"github.com/berrythewa/cliphistory/pkg/format"
)

const (
	// IdleStatus is shown when no status message is pending.
	IdleStatus = "Clipboard idle..."

	DefaultStatusTimeout = 2 * time.Second

	previewWidth = 60
)

// Controller is the part of history.Controller the view calls.
type Controller interface {
	Search(query string)
	RequestCopy(text string) error
	RequestDelete(text string) error
	RequestClear() error
	AutostartEnabled() (bool, error)
	SetAutostart(enabled bool) error
}

var (
	_ Controller        = (*history.Controller)(nil)
	_ history.Presenter = (*MainView)(nil)
	_ history.Notifier  = (*MainView)(nil)
)

// Options configure a MainView.
type Options struct {
	StatusTimeout time.Duration
	Clock         clock.Clock
	Logger        *zap.Logger
}

// MainView represents the main application view. Presenter calls may come
// from any goroutine; widget state is only touched inside fyne.Do.
type MainView struct {
	controller    Controller
	clock         clock.Clock
	logger        *zap.Logger
	statusTimeout time.Duration

	// UI components
	search    *widget.Entry
	list      *widget.List
	status    *widget.Label
	autostart *widget.Check
	clear     *widget.Button
	content   fyne.CanvasObject

	// Owned by the UI goroutine.
	entries []string

	mu          sync.Mutex
	statusTimer *clock.Timer
	statusSeq   uint64
}

// NewMainView creates a new main view. It stays inert until Bind.
func NewMainView(opts Options) *MainView {
	v := &MainView{
		clock:         opts.Clock,
		logger:        opts.Logger,
		statusTimeout: opts.StatusTimeout,
	}
	if v.clock == nil {
		v.clock = clock.New()
	}
	if v.logger == nil {
		v.logger = zap.NewNop()
	}
	if v.statusTimeout <= 0 {
		v.statusTimeout = DefaultStatusTimeout
	}
	v.createUI()
	return v
}

// createUI creates the main view UI
func (v *MainView) createUI() {
	v.search = widget.NewEntry()
	v.search.SetPlaceHolder("Search history...")
	v.search.OnChanged = func(query string) {
		if v.controller != nil {
			v.controller.Search(query)
		}
	}

	v.createHistoryList()

	v.clear = widget.NewButtonWithIcon("Clear All", theme.DeleteIcon(), func() {
		v.dispatch(func(c Controller) error { return c.RequestClear() })
	})

	v.autostart = widget.NewCheck("Start with system", nil)
	v.autostart.Disable()

	v.status = widget.NewLabel(IdleStatus)
	v.status.Truncation = fyne.TextTruncateEllipsis

	v.content = container.NewBorder(
		v.search, // top
		container.NewVBox(
			container.NewHBox(v.autostart, layout.NewSpacer(), v.clear),
			v.status,
		), // bottom
		nil,    // left
		nil,    // right
		v.list, // center
	)
}

// createHistoryList creates the clipboard history list. Tapping a row copies
// it; the trailing button deletes it.
func (v *MainView) createHistoryList() {
	v.list = widget.NewList(
		func() int { return len(v.entries) },
		func() fyne.CanvasObject {
			label := widget.NewLabel("Template")
			label.Truncation = fyne.TextTruncateEllipsis
			remove := widget.NewButtonWithIcon("", theme.CancelIcon(), nil)
			remove.Importance = widget.LowImportance
			return container.NewBorder(nil, nil, nil, remove, label)
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id < 0 || id >= len(v.entries) {
				return
			}
			text := v.entries[id]
			row := item.(*fyne.Container)
			label := row.Objects[0].(*widget.Label)
			remove := row.Objects[1].(*widget.Button)

			label.SetText(format.Preview(text, previewWidth))
			remove.OnTapped = func() {
				v.dispatch(func(c Controller) error { return c.RequestDelete(text) })
			}
		},
	)

	v.list.OnSelected = func(id widget.ListItemID) {
		v.list.UnselectAll()
		if id < 0 || id >= len(v.entries) {
			return
		}
		text := v.entries[id]
		v.dispatch(func(c Controller) error { return c.RequestCopy(text) })
	}
}

// Bind connects the view to its controller and reads the autostart state.
func (v *MainView) Bind(c Controller) {
	v.controller = c

	enabled, err := c.AutostartEnabled()
	if err != nil {
		v.logger.Debug("Autostart state unknown", zap.Error(err))
		return
	}
	fyne.Do(func() {
		v.autostart.SetChecked(enabled)
		v.autostart.OnChanged = v.onAutostartChanged
		v.autostart.Enable()
	})
}

func (v *MainView) onAutostartChanged(enabled bool) {
	v.dispatch(func(c Controller) error {
		err := c.SetAutostart(enabled)
		if err != nil {
			// Put the box back without re-entering this handler.
			fyne.Do(func() {
				v.autostart.OnChanged = nil
				v.autostart.SetChecked(!enabled)
				v.autostart.OnChanged = v.onAutostartChanged
			})
		}
		return err
	})
}

// dispatch runs a controller request off the UI goroutine; requests touch
// the disk and the clipboard.
func (v *MainView) dispatch(fn func(Controller) error) {
	c := v.controller
	if c == nil {
		return
	}
	go func() {
		if err := fn(c); err != nil {
			v.logger.Debug("Request failed", zap.Error(err))
		}
	}()
}

// Content returns the root canvas object.
func (v *MainView) Content() fyne.CanvasObject { return v.content }

// FocusTarget is the widget that receives focus when the window opens.
func (v *MainView) FocusTarget() fyne.Focusable { return v.search }

// Entries returns the entries on screen. Call it on the UI goroutine.
func (v *MainView) Entries() []string {
	out := make([]string, len(v.entries))
	copy(out, v.entries)
	return out
}

// Status returns the current status line. Call it on the UI goroutine.
func (v *MainView) Status() string { return v.status.Text }

func (v *MainView) Prepend(text string) {
	fyne.Do(func() {
		v.entries = append([]string{text}, v.entries...)
		v.list.Refresh()
	})
}

func (v *MainView) ReplaceAll(entries []string) {
	fyne.Do(func() {
		v.entries = entries
		v.list.UnselectAll()
		v.list.Refresh()
		if len(entries) > 0 {
			v.list.ScrollToTop()
		}
	})
}

func (v *MainView) Remove(text string) {
	fyne.Do(func() {
		for i, e := range v.entries {
			if e == text {
				v.entries = append(v.entries[:i:i], v.entries[i+1:]...)
				break
			}
		}
		v.list.Refresh()
	})
}

func (v *MainView) Clear() {
	fyne.Do(func() {
		v.entries = nil
		v.list.Refresh()
	})
}

// Notify shows message until the status timeout passes or another message
// replaces it.
func (v *MainView) Notify(message string) {
	v.mu.Lock()
	v.statusSeq++
	seq := v.statusSeq
	if v.statusTimer != nil {
		v.statusTimer.Stop()
	}
	v.statusTimer = v.clock.AfterFunc(v.statusTimeout, func() { v.resetStatus(seq) })
	v.mu.Unlock()

	fyne.Do(func() { v.status.SetText(message) })
}

func (v *MainView) resetStatus(seq uint64) {
	fyne.Do(func() {
		v.mu.Lock()
		current := seq == v.statusSeq
		v.mu.Unlock()
		if current {
			v.status.SetText(IdleStatus)
		}
	})
}
