//go:build windows

package autostart

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/windows/registry"
)

const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// registryRegistrar writes a value under HKCU\...\Run named after the
// application.
type registryRegistrar struct {
	name string
}

func newPlatformRegistrar(appID, displayName string) (Registrar, error) {
	return &registryRegistrar{name: displayName}, nil
}

func (r *registryRegistrar) IsEnabled() (bool, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: open run key: %v", ErrRegistration, err)
	}
	defer k.Close()

	value, _, err := k.GetStringValue(r.name)
	if errors.Is(err, registry.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %v", ErrRegistration, r.name, err)
	}
	exe, err := executable()
	if err != nil {
		return false, fmt.Errorf("%w: resolve executable: %v", ErrRegistration, err)
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(exe)), nil
}

func (r *registryRegistrar) Enable(executablePath string) error {
	if executablePath == "" {
		return fmt.Errorf("%w: empty executable path", ErrRegistration)
	}
	k, _, err := registry.CreateKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("%w: open run key: %v", ErrRegistration, err)
	}
	defer k.Close()

	command := fmt.Sprintf(`"%s" %s`, executablePath, LaunchArg)
	if err := k.SetStringValue(r.name, command); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrRegistration, r.name, err)
	}
	return nil
}

func (r *registryRegistrar) Disable() error {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: open run key: %v", ErrRegistration, err)
	}
	defer k.Close()

	if err := k.DeleteValue(r.name); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("%w: delete %s: %v", ErrRegistration, r.name, err)
	}
	return nil
}
