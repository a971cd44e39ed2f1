package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/berrythewa/cliphistory/internal/config"
)

// envPrefix prefixes environment overrides: CLIPHISTORY_LOG_LEVEL and so on.
const envPrefix = "CLIPHISTORY"

// NewRootCmd builds the command tree. Without a subcommand it opens the
// history window.
func NewRootCmd() *cobra.Command {
	var minimized bool

	rootCmd := &cobra.Command{
		Use:   "cliphistory",
		Short: "A clipboard history with search and a tray icon",
		Long: `Clipboard History keeps the last texts you copied:
  • Watches the clipboard and records new text
  • Deduplicates and keeps the most recent entries
  • Search, re-copy and delete entries from a window or the command line
  • Starts hidden in the system tray at login when enabled`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if zapLogger != nil {
				_ = zapLogger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, minimized)
		},
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is <user config dir>/cliphistory/config.yaml)")
	pf.BoolVar(&verbose, "verbose", false, "enable verbose output")
	pf.BoolVar(&quiet, "quiet", false, "minimize output")
	pf.BoolVar(&useJSON, "json", false, "output in JSON format")

	// Config overrides, also readable from CLIPHISTORY_* variables.
	pf.String(config.KeyLogLevel, "", "log level: debug|info|warn|error")
	pf.String(config.KeyLogFormat, "", "log format: auto|console|json")
	pf.String(config.KeyHistoryFile, "", "history file")
	pf.Int(config.KeyMaxEntries, 0, "maximum number of stored entries")
	pf.String(config.KeyStorageBackend, "", "history storage: json|bolt")
	pf.String(config.KeyClipboardBackend, "", "clipboard access: atotto|native|headless")
	pf.Duration(config.KeyPollInterval, 0, "clipboard polling period")
	pf.String(config.KeySocketPath, "", "control socket of the running instance")

	rootCmd.Flags().BoolVar(&minimized, "minimized", false, "start hidden in the system tray")

	rootCmd.AddCommand(GetCommands()...)
	return rootCmd
}

// setup loads the configuration, applies flag and environment overrides and
// builds the logger.
func setup(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	if cfgFile == "" {
		cfgFile = v.GetString("config")
	}
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := loaded.ApplyOverrides(v); err != nil {
		return fmt.Errorf("invalid override: %w", err)
	}
	SetConfig(loaded)

	logger, err := SetupLogger(loaded)
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}
	SetZapLogger(logger)

	logger.Debug("Configuration loaded",
		zap.String("config", loaded.SystemPaths.ConfigFile),
		zap.String("history", loaded.HistoryPath()),
		zap.String("storage", loaded.Storage.Backend),
		zap.String("clipboard", loaded.Clipboard.Backend),
		zap.Duration("poll_interval", loaded.Clipboard.PollInterval))
	return nil
}

// Execute runs the root command until it returns or the process is signalled.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// requestTimeout bounds every call to the running instance.
const requestTimeout = 5 * time.Second
