package autostart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NewXDGRegistrar manages <dir>/<appID>.desktop the way freedesktop
// session managers expect.
func NewXDGRegistrar(dir, appID, displayName string) *FileRegistrar {
	return &FileRegistrar{
		path:   filepath.Join(dir, appID+".desktop"),
		escape: quoteExec,
		render: func(exe string) []byte {
			return []byte(fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Comment=Clipboard history
Exec=%s %s
Terminal=false
X-GNOME-Autostart-enabled=true
`, displayName, quoteExec(exe), LaunchArg))
		},
	}
}

// xdgAutostartDir returns $XDG_CONFIG_HOME/autostart, defaulting to
// ~/.config/autostart.
func xdgAutostartDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "autostart"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "autostart"), nil
}

// quoteExec quotes a path for an Exec key when it contains reserved
// characters.
func quoteExec(path string) string {
	if !strings.ContainsAny(path, " \t\"'\\><~|&;$*?#()`") {
		return path
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(path) + `"`
}
