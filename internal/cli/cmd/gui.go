package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/cliphistory/internal/daemon"
	"github.com/berrythewa/cliphistory/internal/gui"
	"github.com/berrythewa/cliphistory/internal/ipc"
)

func runGUI(cmd *cobra.Command, minimized bool) error {
	return runWindow(cmd.Context(), cmd, minimized)
}

// runWindow opens the history window. When another instance already runs,
// its window is raised instead.
func runWindow(ctx context.Context, cmd *cobra.Command, minimized bool) error {
	logger := GetZapLogger()

	app, err := gui.NewApp(cfg, logger, gui.Options{
		StartMinimized: minimized || cfg.UI.StartMinimized,
		Version:        version,
	})
	if errors.Is(err, daemon.ErrAlreadyRunning) {
		if minimized {
			// Started by the session while already running: nothing to do.
			logger.Info("Already running", zap.Error(err))
			return nil
		}
		if _, rerr := callInstance(ctx, ipc.CmdShow, nil); rerr != nil {
			return fmt.Errorf("%w; could not raise its window: %v", err, rerr)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Clipboard history is already running; showing its window")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	return app.Run(ctx)
}
