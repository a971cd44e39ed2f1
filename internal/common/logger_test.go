package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/berrythewa/cliphistory/internal/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("LevelFromConfig", func(t *testing.T) {
		logger, err := NewLogger(config.LogConfig{Level: "warn", Format: "json"}, LoggerOptions{})
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("InvalidLevelFallsBackToInfo", func(t *testing.T) {
		logger, err := NewLogger(config.LogConfig{Level: "chatty"}, LoggerOptions{})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("VerboseEnablesDebug", func(t *testing.T) {
		logger, err := NewLogger(config.LogConfig{Level: "error"}, LoggerOptions{Verbose: true})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("QuietRaisesToWarn", func(t *testing.T) {
		logger, err := NewLogger(config.LogConfig{Level: "debug"}, LoggerOptions{Quiet: true})
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("FileLogging", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "logs", "cliphistory.log")
		logger, err := NewLogger(config.LogConfig{Level: "info", Format: "json", FileLogging: true}, LoggerOptions{LogFile: logFile})
		require.NoError(t, err)

		logger.Info("written to file")
		_ = logger.Sync()

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(data), "written to file"))
	})
}
