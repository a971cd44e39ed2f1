package history

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/berrythewa/cliphistory/internal/autostart"
	"github.com/berrythewa/cliphistory/internal/clipboard"
	"github.com/berrythewa/cliphistory/internal/mocks"
	"github.com/berrythewa/cliphistory/internal/storage"
)

// recordingPresenter mirrors the view and records every call.
type recordingPresenter struct {
	mu       sync.Mutex
	items    []string
	calls    []string
	statuses []string
}

func (p *recordingPresenter) Prepend(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append([]string{text}, p.items...)
	p.calls = append(p.calls, "prepend:"+text)
}

func (p *recordingPresenter) ReplaceAll(entries []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append([]string(nil), entries...)
	p.calls = append(p.calls, fmt.Sprintf("replace:%d", len(entries)))
}

func (p *recordingPresenter) Remove(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, e := range p.items {
		if e == text {
			p.items = append(p.items[:i], p.items[i+1:]...)
			break
		}
	}
	p.calls = append(p.calls, "remove:"+text)
}

func (p *recordingPresenter) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = nil
	p.calls = append(p.calls, "clear")
}

func (p *recordingPresenter) Notify(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, msg)
}

func (p *recordingPresenter) Items() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.items...)
}

func (p *recordingPresenter) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *recordingPresenter) LastStatus() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.statuses) == 0 {
		return ""
	}
	return p.statuses[len(p.statuses)-1]
}

type fixture struct {
	store     *storage.Store
	clip      *clipboard.HeadlessClipboard
	watcher   *clipboard.Watcher
	presenter *recordingPresenter
	clock     *clock.Mock
	ctrl      *Controller
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	store, err := storage.Open(storage.KindJSON, filepath.Join(t.TempDir(), "history.json"), storage.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		store:     store,
		clip:      clipboard.NewHeadlessClipboard(),
		presenter: &recordingPresenter{},
		clock:     clock.NewMock(),
	}
	logger := zaptest.NewLogger(t)
	f.watcher = clipboard.NewWatcher(f.clip, clipboard.WatcherOptions{Clock: f.clock, Logger: logger})

	opts.Clock = f.clock
	opts.Logger = logger
	f.ctrl = NewController(store, f.clip, f.watcher, f.presenter, opts)
	t.Cleanup(f.ctrl.Close)
	return f
}

// poll simulates one watcher tick feeding the controller.
func (f *fixture) poll(t *testing.T) bool {
	t.Helper()
	text, changed := f.watcher.Check()
	if changed {
		require.NoError(t, f.ctrl.OnExternalChange(text))
	}
	return changed
}

func TestController_OnExternalChange(t *testing.T) {
	f := newFixture(t, Options{})

	require.NoError(t, f.ctrl.OnExternalChange("hello"))
	require.NoError(t, f.ctrl.OnExternalChange("world"))
	assert.Equal(t, []string{"world", "hello"}, f.store.Entries(""))
	assert.Equal(t, []string{"world", "hello"}, f.presenter.Items())
	assert.Equal(t, MsgNewText, f.presenter.LastStatus())

	// Already displayed: neither the store nor the view changes.
	require.NoError(t, f.ctrl.OnExternalChange("hello"))
	assert.Equal(t, []string{"world", "hello"}, f.store.Entries(""))
	assert.Equal(t, []string{"world", "hello"}, f.presenter.Items())
	if diff := cmp.Diff([]string{"prepend:hello", "prepend:world"}, f.presenter.Calls()); diff != "" {
		t.Errorf("presenter calls mismatch (-want +got):\n%s", diff)
	}
}

func TestController_DisplayLimit(t *testing.T) {
	f := newFixture(t, Options{DisplayLimit: 3})

	for _, text := range []string{"a", "b", "c", "d"} {
		require.NoError(t, f.ctrl.OnExternalChange(text))
	}

	assert.Equal(t, []string{"d", "c", "b"}, f.presenter.Items())
	assert.Equal(t, []string{"d", "c", "b"}, f.ctrl.Displayed())
	assert.Equal(t, []string{"d", "c", "b", "a"}, f.store.Entries(""), "store keeps more than the view")
	assert.Contains(t, f.presenter.Calls(), "remove:a")

	// Stored but scrolled out of view: recorded again and shown on top.
	require.NoError(t, f.ctrl.OnExternalChange("a"))
	assert.Equal(t, []string{"a", "d", "c"}, f.presenter.Items())
	assert.Equal(t, []string{"a", "d", "c", "b"}, f.store.Entries(""))
}

func TestController_RequestCopySuppressesSelfCopy(t *testing.T) {
	f := newFixture(t, Options{})

	require.NoError(t, f.clip.Write("x"))
	require.True(t, f.poll(t))
	require.NoError(t, f.clip.Write("other"))
	require.True(t, f.poll(t))
	require.Equal(t, []string{"other", "x"}, f.store.Entries(""))

	require.NoError(t, f.ctrl.RequestCopy("x"))
	got, err := f.clip.Read()
	require.NoError(t, err)
	assert.Equal(t, "x", got)
	assert.Equal(t, MsgCopied, f.presenter.LastStatus())

	// The next poll sees x and must not record it again.
	assert.False(t, f.poll(t))
	assert.Equal(t, []string{"other", "x"}, f.store.Entries(""), "copy leaves the order unchanged")

	// After the suppression window a different text is a normal change.
	f.clock.Add(clipboard.DefaultSuppressWindow)
	require.NoError(t, f.clip.Write("y"))
	assert.True(t, f.poll(t))
	assert.Equal(t, []string{"y", "other", "x"}, f.store.Entries(""))
}

func TestController_RequestCopyWriteFailure(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	mockClip := mocks.NewMockClipboard(mockCtrl)
	mockClip.EXPECT().Write("x").Return(fmt.Errorf("%w: busy", clipboard.ErrClipboardAccess))

	store, err := storage.Open(storage.KindJSON, filepath.Join(t.TempDir(), "history.json"), storage.Options{})
	require.NoError(t, err)
	presenter := &recordingPresenter{}
	c := NewController(store, mockClip, nil, presenter, Options{})

	err = c.RequestCopy("x")
	assert.ErrorIs(t, err, clipboard.ErrClipboardAccess)
	assert.Equal(t, MsgCopyFailed, presenter.LastStatus())
}

// failingClipboard fails the next Write when failNext is set.
type failingClipboard struct {
	*clipboard.HeadlessClipboard
	failNext bool
}

func (c *failingClipboard) Write(text string) error {
	if c.failNext {
		c.failNext = false
		return fmt.Errorf("%w: busy", clipboard.ErrClipboardAccess)
	}
	return c.HeadlessClipboard.Write(text)
}

func TestController_FailedCopyKeepsEarlierCopySuppressed(t *testing.T) {
	store, err := storage.Open(storage.KindJSON, filepath.Join(t.TempDir(), "history.json"), storage.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	for _, text := range []string{"c", "b", "a"} {
		require.NoError(t, store.Add(text))
	}

	mock := clock.NewMock()
	clip := &failingClipboard{HeadlessClipboard: clipboard.NewHeadlessClipboard()}
	logger := zaptest.NewLogger(t)
	watcher := clipboard.NewWatcher(clip, clipboard.WatcherOptions{Clock: mock, Logger: logger})
	presenter := &recordingPresenter{}
	c := NewController(store, clip, watcher, presenter, Options{Clock: mock, Logger: logger})
	t.Cleanup(c.Close)
	c.Refresh()

	require.NoError(t, c.RequestCopy("b"))
	mock.Add(clipboard.DefaultSuppressWindow)

	clip.failNext = true
	require.ErrorIs(t, c.RequestCopy("c"), clipboard.ErrClipboardAccess)
	mock.Add(clipboard.DefaultPollInterval)

	got, err := clip.Read()
	require.NoError(t, err)
	require.Equal(t, "b", got)

	_, changed := watcher.Check()
	assert.False(t, changed, "b was written by this program and must not come back as external")
	assert.Equal(t, []string{"a", "b", "c"}, store.Entries(""))
}

func TestController_DeleteAndClear(t *testing.T) {
	f := newFixture(t, Options{})
	for _, text := range []string{"hello", "world"} {
		require.NoError(t, f.ctrl.OnExternalChange(text))
	}

	require.NoError(t, f.ctrl.RequestDelete("world"))
	assert.Equal(t, []string{"hello"}, f.store.Entries(""))
	assert.Equal(t, []string{"hello"}, f.presenter.Items())
	assert.Equal(t, MsgRemoved, f.presenter.LastStatus())

	require.NoError(t, f.ctrl.RequestDelete("absent"))
	assert.Equal(t, []string{"hello"}, f.store.Entries(""))

	require.NoError(t, f.ctrl.RequestClear())
	assert.Empty(t, f.store.Entries(""))
	assert.Empty(t, f.presenter.Items())
	assert.Empty(t, f.ctrl.Displayed())
	assert.Equal(t, MsgCleared, f.presenter.LastStatus())
}

func TestController_SearchDebounce(t *testing.T) {
	f := newFixture(t, Options{})
	for _, text := range []string{"xyz", "xab", "abc"} {
		require.NoError(t, f.store.Add(text))
	}
	f.ctrl.Refresh()
	require.Equal(t, []string{"abc", "xab", "xyz"}, f.presenter.Items())
	before := len(f.presenter.Calls())

	f.ctrl.Search("x")
	f.clock.Add(100 * time.Millisecond)
	f.ctrl.Search("AB")

	// The first search was superseded and never fires.
	f.clock.Add(250 * time.Millisecond)
	assert.Len(t, f.presenter.Calls(), before)

	f.clock.Add(50 * time.Millisecond)
	require.Eventually(t, func() bool {
		return len(f.presenter.Calls()) == before+1
	}, time.Second, time.Millisecond)
	assert.Equal(t, []string{"abc", "xab"}, f.presenter.Items())
	assert.Equal(t, `Searching for: "AB"`, f.presenter.LastStatus())
	assert.Equal(t, "AB", f.ctrl.Query())

	f.ctrl.Search("   ")
	f.clock.Add(DefaultSearchDebounce)
	require.Eventually(t, func() bool {
		return len(f.presenter.Items()) == 3
	}, time.Second, time.Millisecond)
	assert.Equal(t, MsgShowingAll, f.presenter.LastStatus())
}

func TestController_SearchCappedAtDisplayLimit(t *testing.T) {
	f := newFixture(t, Options{})
	for i := 0; i < 80; i++ {
		require.NoError(t, f.store.Add(fmt.Sprintf("item %d", i)))
	}

	f.ctrl.Search("item")
	f.clock.Add(DefaultSearchDebounce)
	require.Eventually(t, func() bool {
		return len(f.presenter.Items()) == DefaultDisplayLimit
	}, time.Second, time.Millisecond)
	assert.Equal(t, "item 79", f.presenter.Items()[0])
	assert.Equal(t, 80, f.store.Len())
}

func TestController_CloseCancelsSearch(t *testing.T) {
	f := newFixture(t, Options{})
	require.NoError(t, f.store.Add("a"))

	f.ctrl.Search("a")
	f.ctrl.Close()
	f.clock.Add(time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, f.presenter.Calls())
}

type brokenBackend struct{}

func (brokenBackend) Load() ([]string, error) { return []string{"kept"}, nil }
func (brokenBackend) Save([]string) error {
	return fmt.Errorf("%w: read-only filesystem", storage.ErrStorageIO)
}
func (brokenBackend) Path() string { return "broken" }
func (brokenBackend) Close() error { return nil }

func TestController_StorageFailureLeavesViewUntouched(t *testing.T) {
	store, err := storage.NewStore(brokenBackend{}, storage.Options{})
	require.NoError(t, err)
	presenter := &recordingPresenter{}
	c := NewController(store, clipboard.NewHeadlessClipboard(), nil, presenter, Options{})
	c.Refresh()

	err = c.OnExternalChange("new")
	assert.True(t, errors.Is(err, storage.ErrStorageIO))
	assert.Equal(t, []string{"kept"}, presenter.Items())
	assert.Equal(t, MsgSaveFailed, presenter.LastStatus())

	assert.ErrorIs(t, c.RequestDelete("kept"), storage.ErrStorageIO)
	assert.ErrorIs(t, c.RequestClear(), storage.ErrStorageIO)
	assert.Equal(t, []string{"kept"}, presenter.Items())
}

func TestController_Autostart(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	registrar := mocks.NewMockRegistrar(mockCtrl)

	store, err := storage.Open(storage.KindJSON, filepath.Join(t.TempDir(), "history.json"), storage.Options{})
	require.NoError(t, err)
	presenter := &recordingPresenter{}
	c := NewController(store, clipboard.NewHeadlessClipboard(), nil, presenter, Options{
		Registrar:  registrar,
		Executable: func() (string, error) { return "/usr/bin/cliphistory", nil },
	})

	gomock.InOrder(
		registrar.EXPECT().Enable("/usr/bin/cliphistory").Return(nil),
		registrar.EXPECT().IsEnabled().Return(true, nil),
		registrar.EXPECT().Disable().Return(fmt.Errorf("%w: access denied", autostart.ErrRegistration)),
	)

	require.NoError(t, c.SetAutostart(true))
	assert.Equal(t, MsgAutostartOn, presenter.LastStatus())

	enabled, err := c.AutostartEnabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	err = c.SetAutostart(false)
	assert.ErrorIs(t, err, autostart.ErrRegistration)
	assert.Equal(t, MsgAutostartFailed, presenter.LastStatus())
}

func TestController_NoRegistrar(t *testing.T) {
	f := newFixture(t, Options{})
	assert.ErrorIs(t, f.ctrl.SetAutostart(true), ErrNoRegistrar)
	_, err := f.ctrl.AutostartEnabled()
	assert.ErrorIs(t, err, ErrNoRegistrar)
}
