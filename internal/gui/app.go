// Package gui runs the history window and tray icon on top of a daemon.
package gui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fynetheme "fyne.io/fyne/v2/theme"
	"go.uber.org/zap"

	"github.com/berrythewa/cliphistory/internal/config"
	"github.com/berrythewa/cliphistory/internal/daemon"
	"github.com/berrythewa/cliphistory/internal/gui/theme"
	"github.com/berrythewa/cliphistory/internal/gui/views"
)

const (
	appID       = "com.berrythewa.cliphistory"
	windowTitle = "Clipboard History"
)

// Options configure the GUI.
type Options struct {
	StartMinimized bool
	Version        string
}

// App represents the main GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	mainView   *views.MainView
	daemon     *daemon.Daemon
	config     *config.Config
	logger     *zap.Logger
	opts       Options
	hasTray    bool
}

// NewApp creates the daemon and the window. It returns
// daemon.ErrAlreadyRunning when another instance owns the socket; the
// caller then asks that instance to show itself.
func NewApp(cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	fyneApp := app.NewWithID(appID)
	fyneApp.Settings().SetTheme(theme.NewClipTheme())

	a := &App{
		fyneApp: fyneApp,
		config:  cfg,
		logger:  logger,
		opts:    opts,
	}

	a.mainView = views.NewMainView(views.Options{
		StatusTimeout: cfg.UI.StatusTimeout,
		Logger:        logger.Named("view"),
	})

	d, err := daemon.New(cfg, logger, daemon.Options{
		Presenter: a.mainView,
		Version:   opts.Version,
		OnShow:    a.show,
	})
	if err != nil {
		return nil, err
	}
	a.daemon = d

	a.setupMainWindow()
	a.setupTray()
	a.mainView.Bind(d.Controller())
	return a, nil
}

// setupMainWindow configures the main application window
func (a *App) setupMainWindow() {
	a.mainWindow = a.fyneApp.NewWindow(windowTitle)
	a.mainWindow.Resize(fyne.NewSize(420, 560))
	a.mainWindow.SetContent(a.mainView.Content())
	a.mainWindow.SetMaster()
}

// setupTray adds the tray menu on desktop drivers. With a tray, closing the
// window hides it instead of quitting.
func (a *App) setupTray() {
	desk, ok := a.fyneApp.(desktop.App)
	if !ok || !a.config.UI.Tray {
		return
	}
	a.hasTray = true

	menu := fyne.NewMenu(windowTitle,
		fyne.NewMenuItem("Show", a.show),
		fyne.NewMenuItem("About", a.about),
	)
	// Fyne appends the Quit item.
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(fynetheme.ContentPasteIcon())

	a.mainWindow.SetCloseIntercept(func() {
		a.mainWindow.Hide()
		a.mainView.Notify("Minimized to tray")
		a.logger.Debug("Window hidden to tray")
	})
}

func (a *App) show() {
	fyne.Do(func() {
		a.mainWindow.Show()
		a.mainWindow.RequestFocus()
		a.mainWindow.Canvas().Focus(a.mainView.FocusTarget())
	})
}

func (a *App) about() {
	a.show()
	fyne.Do(func() {
		version := a.opts.Version
		if version == "" {
			version = "dev"
		}
		dialog.ShowInformation("About",
			fmt.Sprintf("%s %s\n\nKeeps the last %d texts you copied.\nHistory: %s",
				windowTitle, version, a.config.History.MaxEntries, a.daemon.Store().Path()),
			a.mainWindow)
	})
}

// Run shows the window (unless starting minimized to the tray) and blocks on
// the Fyne event loop. The daemon stops when the app quits or ctx ends.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		errc <- a.daemon.Run(ctx)
	}()

	// Quit the event loop when ctx is cancelled from outside (signals).
	go func() {
		<-ctx.Done()
		fyne.Do(a.fyneApp.Quit)
	}()

	if a.opts.StartMinimized && a.hasTray {
		a.logger.Info("Starting minimized to tray")
	} else {
		a.mainWindow.Show()
	}
	a.fyneApp.Run()

	cancel()
	return <-errc
}
