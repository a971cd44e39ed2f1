//go:build !windows && !darwin

package autostart

func newPlatformRegistrar(appID, displayName string) (Registrar, error) {
	dir, err := xdgAutostartDir()
	if err != nil {
		return nil, err
	}
	return NewXDGRegistrar(dir, appID, displayName), nil
}
