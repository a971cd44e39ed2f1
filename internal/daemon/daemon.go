// Package daemon composes a running instance: the history store, the
// clipboard watcher, the controller and the IPC server.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/berrythewa/cliphistory/internal/autostart"
	"github.com/berrythewa/cliphistory/internal/clipboard"
	"github.com/berrythewa/cliphistory/internal/config"
	"github.com/berrythewa/cliphistory/internal/history"
	"github.com/berrythewa/cliphistory/internal/ipc"
	"github.com/berrythewa/cliphistory/internal/storage"
)

// AppID names the program to the session autostart mechanism.
const AppID = "cliphistory"

// ErrAlreadyRunning is returned by New when another instance owns the socket
// or the PID file.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Options customise a Daemon. Zero values select the defaults.
type Options struct {
	// Presenter receives view updates; nil logs them.
	Presenter history.Presenter
	// Clipboard overrides the configured backend.
	Clipboard clipboard.Clipboard
	// Registrar overrides the platform autostart registrar.
	Registrar autostart.Registrar
	Clock     clock.Clock
	Version   string
	// OnShow handles the "show" command, usually by raising the window.
	OnShow func()
}

// Daemon is one running instance.
type Daemon struct {
	cfg        *config.Config
	logger     *zap.Logger
	store      *storage.Store
	clip       clipboard.Clipboard
	watcher    *clipboard.Watcher
	controller *history.Controller
	server     *ipc.Server
	pidFile    string
	version    string
	onShow     func()
	startedAt  time.Time

	closeOnce sync.Once
	closeErr  error
}

// New checks that no other instance runs, then opens the store and builds
// the components. The IPC socket is bound here so a second instance fails
// fast.
func New(cfg *config.Config, logger *zap.Logger, opts Options) (*Daemon, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Daemon{
		cfg:       cfg,
		logger:    logger,
		version:   opts.Version,
		onShow:    opts.OnShow,
		pidFile:   PIDFile(cfg),
		startedAt: time.Now(),
	}

	useIPC := cfg.IPC.Enabled && runtime.GOOS != "windows"
	if useIPC && ipc.Probe(cfg.SocketPath()) {
		return nil, fmt.Errorf("%w: socket %s answers", ErrAlreadyRunning, cfg.SocketPath())
	}
	if pid, ok := livePID(d.pidFile); ok && pid != os.Getpid() {
		if !useIPC {
			return nil, fmt.Errorf("%w: pid %d", ErrAlreadyRunning, pid)
		}
		logger.Warn("Ignoring PID file of an instance without a socket", zap.Int("pid", pid))
	}

	store, err := storage.Open(storage.Kind(cfg.Storage.Backend), cfg.HistoryPath(), storage.Options{
		MaxEntries: cfg.History.MaxEntries,
		Logger:     logger.Named("storage"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	d.store = store

	d.clip = opts.Clipboard
	if d.clip == nil {
		d.clip, err = clipboard.New(clipboard.Backend(cfg.Clipboard.Backend), logger.Named("clipboard"))
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	d.watcher = clipboard.NewWatcher(d.clip, clipboard.WatcherOptions{
		Interval:       cfg.Clipboard.PollInterval,
		SuppressWindow: cfg.Clipboard.SuppressWindow,
		Clock:          opts.Clock,
		Logger:         logger.Named("watcher"),
		BackendName:    cfg.Clipboard.Backend,
	})

	registrar := opts.Registrar
	if registrar == nil {
		registrar, err = autostart.New(AppID, "Clipboard History")
		if err != nil {
			logger.Warn("Autostart unavailable", zap.Error(err))
			registrar = nil
		}
	}

	presenter := opts.Presenter
	if presenter == nil {
		presenter = NewLogPresenter(logger.Named("view"))
	}
	d.controller = history.NewController(d.store, d.clip, d.watcher, presenter, history.Options{
		DisplayLimit:   cfg.History.DisplayLimit,
		SearchDebounce: cfg.UI.SearchDebounce,
		Clock:          opts.Clock,
		Logger:         logger.Named("controller"),
		Registrar:      registrar,
	})

	if useIPC {
		d.server = ipc.NewServer(cfg.SocketPath(), d.Handle, logger.Named("ipc"))
		if err := d.server.Listen(); err != nil {
			store.Close()
			if errors.Is(err, ipc.ErrInUse) {
				return nil, fmt.Errorf("%w: %v", ErrAlreadyRunning, err)
			}
			return nil, err
		}
	}
	return d, nil
}

// Controller returns the controller, for views that call back into it.
func (d *Daemon) Controller() *history.Controller { return d.controller }

// Store returns the history store.
func (d *Daemon) Store() *storage.Store { return d.store }

// Watcher returns the clipboard watcher.
func (d *Daemon) Watcher() *clipboard.Watcher { return d.watcher }

// Run shows the initial history, then watches the clipboard and serves IPC
// until ctx is cancelled. The daemon is closed when Run returns.
func (d *Daemon) Run(ctx context.Context) (err error) {
	defer func() { err = multierr.Append(err, d.Close()) }()

	if werr := writePIDFile(d.pidFile); werr != nil {
		d.logger.Warn("Failed to write PID file", zap.String("path", d.pidFile), zap.Error(werr))
	}
	d.controller.Refresh()

	d.logger.Info("Clipboard history started",
		zap.String("history", d.store.Path()),
		zap.Int("entries", d.store.Len()),
		zap.Duration("poll_interval", d.watcher.Interval()))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	record := func(e error) {
		mu.Lock()
		errs = multierr.Append(errs, e)
		mu.Unlock()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		record(d.watcher.Run(ctx, func(text string) {
			// Failures are logged and shown by the controller.
			_ = d.controller.OnExternalChange(text)
		}))
	}()

	if d.server != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if serr := d.server.Serve(ctx); serr != nil {
				d.logger.Error("IPC server stopped", zap.Error(serr))
				record(serr)
			}
		}()
	}

	wg.Wait()
	d.logger.Info("Clipboard history stopped")
	return errs
}

// Close releases the store and the PID file. It is safe to call twice.
func (d *Daemon) Close() error {
	d.closeOnce.Do(func() {
		d.controller.Close()
		d.closeErr = multierr.Combine(
			d.store.Close(),
			removePIDFile(d.pidFile),
		)
	})
	return d.closeErr
}
