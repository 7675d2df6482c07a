//go:build !windows

package appdirs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/regenrek/paneldeck/internal/runenv"
)

var (
	runtimePermsWarnOnce sync.Once
	dataPermsWarnOnce    sync.Once
)

// RuntimeDir returns the directory used for runtime state (socket/pid/logs),
// creating it with 0700 permissions when missing.
func RuntimeDir() (string, error) {
	if override := runenv.RuntimeDir(); override != "" {
		return ensureRuntimeDir(override, true)
	}
	dir, err := RuntimeDirPath()
	if err != nil {
		return "", err
	}
	return ensureRuntimeDir(dir, false)
}

// RuntimeDirPath resolves the runtime directory without creating it.
func RuntimeDirPath() (string, error) {
	if override := runenv.RuntimeDir(); override != "" {
		return override, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "paneldeck"), nil
}

// DataDir returns the directory persisted panel state lives in, creating it
// with 0700 permissions when missing.
func DataDir() (string, error) {
	if override := runenv.DataDir(); override != "" {
		return ensureDataDir(override, true)
	}
	dir, err := DataDirPath()
	if err != nil {
		return "", err
	}
	return ensureDataDir(dir, false)
}

// DataDirPath resolves the data directory without creating it.
func DataDirPath() (string, error) {
	if override := runenv.DataDir(); override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".paneldeck"), nil
}

func ensureRuntimeDir(dir string, isOverride bool) (string, error) {
	return ensurePrivateDir(dir, "runtime", isOverride, &runtimePermsWarnOnce)
}

func ensureDataDir(dir string, isOverride bool) (string, error) {
	return ensurePrivateDir(dir, "data", isOverride, &dataPermsWarnOnce)
}

func ensurePrivateDir(dir, kind string, isOverride bool, warnOnce *sync.Once) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("%s dir is empty", kind)
	}
	info, err := os.Stat(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("stat %s dir: %w", kind, err)
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", fmt.Errorf("create %s dir: %w", kind, err)
		}
		return dir, nil
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s dir %q is not a directory", kind, dir)
	}
	mode := info.Mode().Perm()
	if mode&0o077 == 0 {
		return dir, nil
	}
	if isOverride {
		warnOnce.Do(func() {
			slog.Warn(kind+" dir is group/world accessible; consider chmod 0700", "path", dir, "mode", mode.String())
		})
		return dir, nil
	}
	if ownedByCurrentUser(info) {
		if err := os.Chmod(dir, 0o700); err != nil {
			return "", fmt.Errorf("chmod %s dir: %w", kind, err)
		}
		return dir, nil
	}
	warnOnce.Do(func() {
		slog.Warn(kind+" dir is not owned by current user; permissions unchanged", "path", dir, "mode", mode.String())
	})
	return dir, nil
}

func ownedByCurrentUser(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	return stat.Uid == uint32(os.Getuid())
}
