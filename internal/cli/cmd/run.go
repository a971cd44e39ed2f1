package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/cliphistory/internal/daemon"
)

// newRunCmd creates the run command
func newRunCmd() *cobra.Command {
	var (
		headless  bool
		minimized bool
		duration  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the clipboard watcher",
		Long: `Run the clipboard watcher with its window, or without one when
--headless is given. The headless watcher still records history and answers
the other commands through its control socket.

You can specify a duration for testing purposes, otherwise it will run
until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}
			if headless {
				return runHeadless(ctx)
			}
			return runWindow(ctx, cmd, minimized)
		},
	}

	cmd.Flags().BoolVar(&headless, "headless", false, "run without a window")
	cmd.Flags().BoolVar(&minimized, "minimized", false, "start hidden in the system tray")
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0 = until interrupted)")
	return cmd
}

func runHeadless(ctx context.Context) error {
	logger := GetZapLogger()
	d, err := daemon.New(cfg, logger, daemon.Options{Version: version})
	if errors.Is(err, daemon.ErrAlreadyRunning) {
		return fmt.Errorf("%w (see 'cliphistory status')", err)
	}
	if err != nil {
		return err
	}

	logger.Info("Running headless", zap.String("socket", cfg.SocketPath()))
	return d.Run(ctx)
}
