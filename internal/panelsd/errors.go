package panelsd

import (
	"errors"
	"net"
	"os"
)

var (
	ErrDaemonProbeTimeout    = errors.New("panelsd: daemon probe timed out")
	ErrClientClosed          = errors.New("panelsd: client closed")
	ErrConnectionUnavailable = errors.New("panelsd: connection unavailable")
	ErrResponseChannelClosed = errors.New("panelsd: response channel closed")
)

// IsConnectionError reports whether an error indicates the daemon
// connection is unavailable, as opposed to the daemon rejecting the
// request.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrClientClosed) || errors.Is(err, ErrConnectionUnavailable) || errors.Is(err, ErrResponseChannelClosed) {
		return true
	}
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	if os.IsNotExist(err) {
		return true
	}
	return false
}
