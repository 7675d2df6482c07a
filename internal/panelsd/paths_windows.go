//go:build windows

package panelsd

import "errors"

const (
	socketEnv = "PANELDECK_DAEMON_SOCKET"
	pidEnv    = "PANELDECK_DAEMON_PID"
)

// DefaultSocketPath returns the default socket path on Windows.
func DefaultSocketPath() (string, error) {
	return "", errors.New("panel daemon sockets are not supported on windows yet")
}

// DefaultPidPath returns the default pid file path on Windows.
func DefaultPidPath() (string, error) {
	return "", errors.New("panel daemon pid files are not supported on windows yet")
}

// DefaultLogPath returns the default daemon output path on Windows.
func DefaultLogPath() (string, error) {
	return "", errors.New("panel daemon log files are not supported on windows yet")
}
