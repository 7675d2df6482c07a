//go:build !windows

package panelsd

import (
	"os"
	"testing"
)

func TestDefaultPathsEnvOverride(t *testing.T) {
	t.Setenv(socketEnv, "/tmp/test-panelsd.sock")
	t.Setenv(pidEnv, "/tmp/test-panelsd.pid")
	if path, err := DefaultSocketPath(); err != nil || path != "/tmp/test-panelsd.sock" {
		t.Fatalf("socket path=%q err=%v", path, err)
	}
	if path, err := DefaultPidPath(); err != nil || path != "/tmp/test-panelsd.pid" {
		t.Fatalf("pid path=%q err=%v", path, err)
	}
}

func TestPidAlive(t *testing.T) {
	if !pidAlive(os.Getpid()) {
		t.Fatalf("own pid reported dead")
	}
	if pidAlive(0) || pidAlive(-1) {
		t.Fatalf("non-positive pids reported alive")
	}
}
