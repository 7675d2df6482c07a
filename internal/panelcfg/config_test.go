package panelcfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.toml")
	loader := NewLoader(path)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Panels.Docks() {
		t.Fatalf("Panels.Docks()=false want true")
	}
	if cfg.Panels.OpaqueResize {
		t.Fatalf("Panels.OpaqueResize=true want false")
	}
	if got := cfg.Panels.ShowDelay(); got != 0 {
		t.Fatalf("Panels.ShowDelay()=%v want 0", got)
	}
	if cfg.Sim.ScaleX != defaultScaleX {
		t.Fatalf("Sim.ScaleX=%d want %d", cfg.Sim.ScaleX, defaultScaleX)
	}
	if cfg.Sim.ScaleY != defaultScaleY {
		t.Fatalf("Sim.ScaleY=%d want %d", cfg.Sim.ScaleY, defaultScaleY)
	}
	if cfg.Logging.Level != nil {
		t.Fatalf("Logging.Level=%q want nil", *cfg.Logging.Level)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := []byte(`
[logging]
level = "debug"
sink = "file"

[panels]
opaque_resize = true
show_delay_ms = 350
hide_delay_ms = 120
docks_enabled = false

[sim]
scale_x = 10
scale_y = 20
scene_dir = "/tmp/scenes"
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	loader := NewLoader(path)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Panels.OpaqueResize {
		t.Fatalf("Panels.OpaqueResize=false want true")
	}
	if got := cfg.Panels.ShowDelay(); got != 350*time.Millisecond {
		t.Fatalf("Panels.ShowDelay()=%v want 350ms", got)
	}
	if got := cfg.Panels.HideDelay(); got != 120*time.Millisecond {
		t.Fatalf("Panels.HideDelay()=%v want 120ms", got)
	}
	if cfg.Panels.Docks() {
		t.Fatalf("Panels.Docks()=true want false")
	}
	if cfg.Sim.ScaleX != 10 || cfg.Sim.ScaleY != 20 {
		t.Fatalf("Sim scale=%dx%d want 10x20", cfg.Sim.ScaleX, cfg.Sim.ScaleY)
	}
	if cfg.Sim.SceneDir != "/tmp/scenes" {
		t.Fatalf("Sim.SceneDir=%q", cfg.Sim.SceneDir)
	}
	if cfg.Logging.Level == nil || *cfg.Logging.Level != "debug" {
		t.Fatalf("Logging.Level=%v want debug", cfg.Logging.Level)
	}
	if cfg.Logging.Sink == nil || *cfg.Logging.Sink != "file" {
		t.Fatalf("Logging.Sink=%v want file", cfg.Logging.Sink)
	}
}

func TestLoadClampsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := []byte(`
[panels]
show_delay_ms = -5

[sim]
scale_x = 0
scale_y = -3
scene_dir = "  /data/scenes  "
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	loader := NewLoader(path)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := cfg.Panels.ShowDelay(); got != 0 {
		t.Fatalf("Panels.ShowDelay()=%v want 0", got)
	}
	if cfg.Sim.ScaleX != defaultScaleX || cfg.Sim.ScaleY != defaultScaleY {
		t.Fatalf("Sim scale=%dx%d want defaults", cfg.Sim.ScaleX, cfg.Sim.ScaleY)
	}
	if cfg.Sim.SceneDir != "/data/scenes" {
		t.Fatalf("Sim.SceneDir=%q want trimmed", cfg.Sim.SceneDir)
	}
}

func TestLoadCachesUntilFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	write := func(data string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}

	write("[sim]\nscale_x = 10\n")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}

	loader := NewLoader(path)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Sim.ScaleX != 10 {
		t.Fatalf("Sim.ScaleX=%d want 10", cfg.Sim.ScaleX)
	}

	// Same size and mtime: the cached copy is served without a re-read.
	write("[sim]\nscale_x = 12\n")
	if err := os.Chtimes(path, info.ModTime(), info.ModTime()); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	cfg, err = loader.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Sim.ScaleX != 10 {
		t.Fatalf("Sim.ScaleX=%d want cached 10", cfg.Sim.ScaleX)
	}

	// A size change invalidates the cache.
	write("[sim]\nscale_x = 7\n")
	cfg, err = loader.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Sim.ScaleX != 7 {
		t.Fatalf("Sim.ScaleX=%d want 7", cfg.Sim.ScaleX)
	}
}
