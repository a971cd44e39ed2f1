//go:build darwin

package autostart

import (
	"os"
	"path/filepath"
)

func newPlatformRegistrar(appID, displayName string) (Registrar, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewLaunchAgentRegistrar(filepath.Join(home, "Library", "LaunchAgents"), "com.berrythewa."+appID), nil
}
