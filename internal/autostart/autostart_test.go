package autostart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withExecutable(t *testing.T, path string) {
	t.Helper()
	orig := executable
	executable = func() (string, error) { return path, nil }
	t.Cleanup(func() { executable = orig })
}

func TestXDGRegistrar(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "autostart")
	exe := "/opt/clip history/cliphistory"
	withExecutable(t, exe)

	r := NewXDGRegistrar(dir, "cliphistory", "ClipHistory")

	enabled, err := r.IsEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, r.Enable(exe))
	enabled, err = r.IsEnabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	data, err := os.ReadFile(filepath.Join(dir, "cliphistory.desktop"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[Desktop Entry]")
	assert.Contains(t, string(data), "Name=ClipHistory")
	assert.Contains(t, string(data), `Exec="/opt/clip history/cliphistory" --minimized`)

	_, err = os.Stat(r.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, r.Disable())
	enabled, err = r.IsEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	// Disabling twice is a no-op.
	assert.NoError(t, r.Disable())
}

func TestXDGRegistrar_OtherExecutable(t *testing.T) {
	dir := t.TempDir()
	withExecutable(t, "/usr/bin/cliphistory")

	r := NewXDGRegistrar(dir, "cliphistory", "ClipHistory")
	require.NoError(t, r.Enable("/home/me/old/cliphistory"))

	enabled, err := r.IsEnabled()
	require.NoError(t, err)
	assert.False(t, enabled, "an entry for another binary is not ours")
}

func TestRegistrarErrors(t *testing.T) {
	t.Run("EmptyPath", func(t *testing.T) {
		r := NewXDGRegistrar(t.TempDir(), "cliphistory", "ClipHistory")
		assert.ErrorIs(t, r.Enable(""), ErrRegistration)
	})

	t.Run("UnwritableDirectory", func(t *testing.T) {
		parent := t.TempDir()
		blocker := filepath.Join(parent, "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))

		r := NewXDGRegistrar(filepath.Join(blocker, "autostart"), "cliphistory", "ClipHistory")
		assert.ErrorIs(t, r.Enable("/usr/bin/cliphistory"), ErrRegistration)
	})
}

func TestLaunchAgentRegistrar(t *testing.T) {
	dir := t.TempDir()
	exe := "/Applications/Clip & History.app/Contents/MacOS/cliphistory"
	withExecutable(t, exe)

	r := NewLaunchAgentRegistrar(dir, "com.berrythewa.cliphistory")
	require.NoError(t, r.Enable(exe))

	data, err := os.ReadFile(filepath.Join(dir, "com.berrythewa.cliphistory.plist"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<string>com.berrythewa.cliphistory</string>")
	assert.Contains(t, string(data), "Clip &amp; History.app")
	assert.Contains(t, string(data), "<string>--minimized</string>")

	enabled, err := r.IsEnabled()
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestQuoteExec(t *testing.T) {
	assert.Equal(t, "/usr/bin/cliphistory", quoteExec("/usr/bin/cliphistory"))
	assert.Equal(t, `"/a b/c"`, quoteExec("/a b/c"))
	assert.Equal(t, `"/a\$b"`, quoteExec("/a$b"))
}
