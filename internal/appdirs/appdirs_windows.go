//go:build windows

package appdirs

import "errors"

func RuntimeDir() (string, error) {
	return "", errors.New("runtime dirs are not supported on windows yet")
}

func RuntimeDirPath() (string, error) {
	return "", errors.New("runtime dirs are not supported on windows yet")
}

func DataDir() (string, error) {
	return "", errors.New("data dirs are not supported on windows yet")
}

func DataDirPath() (string, error) {
	return "", errors.New("data dirs are not supported on windows yet")
}
