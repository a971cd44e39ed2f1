package views

import (
	"errors"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeController struct {
	mu           sync.Mutex
	calls        []string
	autostart    bool
	autostartErr error
	setErr       error
}

func (f *fakeController) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeController) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeController) Search(query string)             { f.record("search:" + query) }
func (f *fakeController) RequestCopy(text string) error   { f.record("copy:" + text); return nil }
func (f *fakeController) RequestDelete(text string) error { f.record("delete:" + text); return nil }
func (f *fakeController) RequestClear() error             { f.record("clear"); return nil }

func (f *fakeController) AutostartEnabled() (bool, error) {
	return f.autostart, f.autostartErr
}

func (f *fakeController) SetAutostart(enabled bool) error {
	if enabled {
		f.record("autostart:on")
	} else {
		f.record("autostart:off")
	}
	return f.setErr
}

func newTestView(t *testing.T) (*MainView, *clock.Mock) {
	t.Helper()
	test.NewTempApp(t)
	mock := clock.NewMock()
	v := NewMainView(Options{Clock: mock, Logger: zaptest.NewLogger(t)})
	w := test.NewTempWindow(t, v.Content())
	w.Resize(fyne.NewSize(400, 600))
	return v, mock
}

func TestMainView_Presenter(t *testing.T) {
	v, _ := newTestView(t)

	v.ReplaceAll([]string{"b", "c"})
	v.Prepend("a")
	assert.Equal(t, []string{"a", "b", "c"}, v.Entries())
	assert.Equal(t, 3, v.list.Length())

	v.Remove("b")
	assert.Equal(t, []string{"a", "c"}, v.Entries())

	v.Remove("missing")
	assert.Equal(t, []string{"a", "c"}, v.Entries())

	v.Clear()
	assert.Empty(t, v.Entries())
}

func TestMainView_ReplaceAllDoesNotAlias(t *testing.T) {
	v, _ := newTestView(t)
	in := []string{"a", "b", "c"}
	v.ReplaceAll(in)
	v.Remove("a")
	assert.Equal(t, []string{"a", "b", "c"}, in)
}

func TestMainView_StatusTimeout(t *testing.T) {
	v, mock := newTestView(t)
	assert.Equal(t, IdleStatus, v.Status())

	v.Notify("Text copied to clipboard!")
	assert.Equal(t, "Text copied to clipboard!", v.Status())

	// A newer message restarts the timeout.
	mock.Add(DefaultStatusTimeout / 2)
	v.Notify("Item removed from history!")
	mock.Add(DefaultStatusTimeout / 2)
	assert.Equal(t, "Item removed from history!", v.Status())

	mock.Add(DefaultStatusTimeout / 2)
	require.Eventually(t, func() bool { return v.Status() == IdleStatus }, time.Second, 5*time.Millisecond)
}

func TestMainView_UserActions(t *testing.T) {
	v, _ := newTestView(t)
	c := &fakeController{}
	v.Bind(c)
	v.ReplaceAll([]string{"first line\nsecond line", "other"})

	v.list.Select(0)
	require.Eventually(t, func() bool { return len(c.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "copy:first line\nsecond line", c.Calls()[0])

	test.Type(v.search, "ot")
	assert.Contains(t, c.Calls(), "search:o")
	assert.Contains(t, c.Calls(), "search:ot")

	test.Tap(v.clear)
	require.Eventually(t, func() bool {
		calls := c.Calls()
		return calls[len(calls)-1] == "clear"
	}, time.Second, 5*time.Millisecond)
}

func TestMainView_Unbound(t *testing.T) {
	v, _ := newTestView(t)
	v.ReplaceAll([]string{"x"})

	// No controller: user actions are ignored.
	v.list.Select(0)
	test.Tap(v.clear)
	test.Type(v.search, "x")
	assert.True(t, v.autostart.Disabled())
}

func TestMainView_Autostart(t *testing.T) {
	t.Run("reflects state", func(t *testing.T) {
		v, _ := newTestView(t)
		v.Bind(&fakeController{autostart: true})
		assert.True(t, v.autostart.Checked)
		assert.False(t, v.autostart.Disabled())
	})

	t.Run("unavailable", func(t *testing.T) {
		v, _ := newTestView(t)
		v.Bind(&fakeController{autostartErr: errors.New("autostart is not available")})
		assert.True(t, v.autostart.Disabled())
	})

	t.Run("toggle", func(t *testing.T) {
		v, _ := newTestView(t)
		c := &fakeController{}
		v.Bind(c)

		test.Tap(v.autostart)
		require.Eventually(t, func() bool { return len(c.Calls()) == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, "autostart:on", c.Calls()[0])
		assert.True(t, v.autostart.Checked)
	})

	t.Run("failure reverts", func(t *testing.T) {
		v, _ := newTestView(t)
		c := &fakeController{setErr: errors.New("autostart registration failed")}
		v.Bind(c)

		test.Tap(v.autostart)
		require.Eventually(t, func() bool { return !v.autostart.Checked && len(c.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	})
}
