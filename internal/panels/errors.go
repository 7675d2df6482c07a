package panels

import "errors"

var (
	// ErrMissingTitlebar means a content window mapped without naming a
	// titlebar window to pair with.
	ErrMissingTitlebar = errors.New("panels: content window has no titlebar")

	// ErrUnknownTitlebar means the named titlebar window does not exist.
	ErrUnknownTitlebar = errors.New("panels: titlebar window not found")

	// ErrDuplicateWindow means a window mapped twice without an
	// intervening unmap.
	ErrDuplicateWindow = errors.New("panels: window already tracked")
)
