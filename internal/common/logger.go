package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/berrythewa/cliphistory/internal/config"
)

// LoggerOptions carry the command line logging switches.
type LoggerOptions struct {
	Verbose bool // development config, debug level
	Quiet   bool // warnings and errors only
	LogFile string
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewLogger creates a new logger instance
func NewLogger(cfg config.LogConfig, opts LoggerOptions) (*zap.Logger, error) {
	var zcfg zap.Config

	switch {
	case opts.Verbose:
		zcfg = zap.NewDevelopmentConfig()
	default:
		zcfg = zap.NewProductionConfig()
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level = zapcore.InfoLevel
		}
		if opts.Quiet && level < zapcore.WarnLevel {
			level = zapcore.WarnLevel
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}

	tty := IsTerminal(os.Stderr)
	switch strings.ToLower(cfg.Format) {
	case "json":
		zcfg.Encoding = "json"
		zcfg.EncoderConfig = zap.NewProductionEncoderConfig()
	case "console", "text":
		zcfg.Encoding = "console"
	default:
		if tty {
			zcfg.Encoding = "console"
		} else {
			zcfg.Encoding = "json"
			zcfg.EncoderConfig = zap.NewProductionEncoderConfig()
		}
	}
	if zcfg.Encoding == "console" {
		zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		if tty {
			zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		zcfg.Sampling = nil
	}
	zcfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	if cfg.FileLogging && opts.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		zcfg.OutputPaths = append(zcfg.OutputPaths, opts.LogFile)
	}

	return zcfg.Build()
}
