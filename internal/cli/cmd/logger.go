package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/berrythewa/cliphistory/internal/common"
	"github.com/berrythewa/cliphistory/internal/config"
)

// SetupLogger creates the zap logger for cfg honouring --verbose and --quiet.
func SetupLogger(cfg *config.Config) (*zap.Logger, error) {
	return common.NewLogger(cfg.Log, common.LoggerOptions{
		Verbose: verbose,
		Quiet:   quiet,
		LogFile: cfg.LogFile(),
	})
}

// GetLogger returns the configured logger, creating it if necessary
func GetLogger() (*zap.Logger, error) {
	if zapLogger != nil {
		return zapLogger, nil
	}

	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	logger, err := SetupLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	zapLogger = logger
	return logger, nil
}
