//go:build !windows

package panelsd

import (
	"os"
	"path/filepath"

	"github.com/regenrek/paneldeck/internal/appdirs"
)

const (
	socketEnv = "PANELDECK_DAEMON_SOCKET"
	pidEnv    = "PANELDECK_DAEMON_PID"
)

// DefaultSocketPath returns the default unix socket path.
func DefaultSocketPath() (string, error) {
	if path := os.Getenv(socketEnv); path != "" {
		return path, nil
	}
	dir, err := runtimeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "panelsd.sock"), nil
}

// DefaultPidPath returns the default pid file path.
func DefaultPidPath() (string, error) {
	if path := os.Getenv(pidEnv); path != "" {
		return path, nil
	}
	dir, err := runtimeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "panelsd.pid"), nil
}

// DefaultLogPath returns the file a detached daemon's raw stdout and
// stderr are redirected to. Structured logs go through the logging
// package instead.
func DefaultLogPath() (string, error) {
	dir, err := runtimeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "panelsd.out"), nil
}

func runtimeDir() (string, error) {
	return appdirs.RuntimeDir()
}
