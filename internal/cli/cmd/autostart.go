package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/cliphistory/internal/autostart"
	"github.com/berrythewa/cliphistory/internal/daemon"
)

// newRegistrar is swapped in tests.
var newRegistrar = func() (autostart.Registrar, error) {
	return autostart.New(daemon.AppID, "Clipboard History")
}

func newAutostartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Start the history window with your session",
		Long: `Register or unregister this executable to start at login. The session
starts it with --minimized so the window waits in the system tray.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Start at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := newRegistrar()
				if err != nil {
					return err
				}
				exe, err := os.Executable()
				if err != nil {
					return fmt.Errorf("failed to get executable path: %w", err)
				}
				if err := r.Enable(exe); err != nil {
					return err
				}
				GetZapLogger().Info("Autostart enabled", zap.String("executable", exe))
				fmt.Fprintln(cmd.OutOrStdout(), "Auto-start enabled")
				return nil
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Do not start at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := newRegistrar()
				if err != nil {
					return err
				}
				if err := r.Disable(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Auto-start disabled")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether autostart is enabled",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := newRegistrar()
				if err != nil {
					return err
				}
				enabled, err := r.IsEnabled()
				if err != nil {
					return err
				}
				if useJSON {
					return writeJSON(cmd.OutOrStdout(), map[string]bool{"enabled": enabled})
				}
				if enabled {
					fmt.Fprintln(cmd.OutOrStdout(), "Auto-start is enabled")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Auto-start is disabled")
				}
				return nil
			},
		},
	)
	return cmd
}
