// Package autostart registers the program to start with the user session.
package autostart

import (
	"errors"
	"fmt"
	"os"
)

// ErrRegistration is wrapped by every failure to read or change the
// autostart registration.
var ErrRegistration = errors.New("autostart registration failed")

// LaunchArg is passed to the executable when started by the session, so the
// window starts hidden in the tray.
const LaunchArg = "--minimized"

//go:generate mockgen -source=autostart.go -destination=../mocks/mock_registrar.go -package=mocks

// Registrar enables or disables launching an executable at login.
type Registrar interface {
	IsEnabled() (bool, error)
	Enable(executablePath string) error
	Disable() error
}

// executable is swapped in tests.
var executable = os.Executable

// New returns the registrar for the current platform. appID is a short
// machine name ("cliphistory"), displayName is shown by session managers.
func New(appID, displayName string) (Registrar, error) {
	r, err := newPlatformRegistrar(appID, displayName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistration, err)
	}
	return r, nil
}
