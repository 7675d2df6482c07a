package panelcfg

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/regenrek/paneldeck/internal/appdirs"
	"github.com/regenrek/paneldeck/internal/logging"
)

const (
	defaultScaleX = 8
	defaultScaleY = 16
)

// Config represents ~/.paneldeck/config.toml.
type Config struct {
	Logging logging.Config `toml:"logging"`
	Panels  PanelsConfig   `toml:"panels"`
	Sim     SimConfig      `toml:"sim"`
}

// PanelsConfig tunes the panel engine.
type PanelsConfig struct {
	OpaqueResize bool  `toml:"opaque_resize"`
	ShowDelayMS  int   `toml:"show_delay_ms"`
	HideDelayMS  int   `toml:"hide_delay_ms"`
	DocksEnabled *bool `toml:"docks_enabled"`
}

// ShowDelay returns show_delay_ms as a duration. Zero means the engine
// default.
func (c PanelsConfig) ShowDelay() time.Duration {
	return time.Duration(c.ShowDelayMS) * time.Millisecond
}

// HideDelay returns hide_delay_ms as a duration. Zero means the engine
// default.
func (c PanelsConfig) HideDelay() time.Duration {
	return time.Duration(c.HideDelayMS) * time.Millisecond
}

// Docks reports whether the side docks are enabled.
func (c PanelsConfig) Docks() bool {
	return c.DocksEnabled == nil || *c.DocksEnabled
}

// SimConfig tunes the terminal simulator.
type SimConfig struct {
	ScaleX   int    `toml:"scale_x"`
	ScaleY   int    `toml:"scale_y"`
	SceneDir string `toml:"scene_dir"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	docks := true
	return Config{
		Panels: PanelsConfig{
			DocksEnabled: &docks,
		},
		Sim: SimConfig{
			ScaleX: defaultScaleX,
			ScaleY: defaultScaleY,
		},
	}
}

// DefaultPath returns the default global config path
// (~/.paneldeck/config.toml).
func DefaultPath() (string, error) {
	dir, err := appdirs.DataDirPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Loader caches config values and reloads when the file changes.
type Loader struct {
	path     string
	lastRead fileState
	cached   Config
}

type fileState struct {
	modTime time.Time
	size    int64
}

// NewLoader creates a config loader for the provided path.
func NewLoader(path string) *Loader {
	return &Loader{
		path:   strings.TrimSpace(path),
		cached: Defaults(),
	}
}

// Load returns the cached config, reloading if the file changed.
func (l *Loader) Load() (Config, error) {
	if l == nil {
		return Defaults(), errors.New("nil loader")
	}
	path := strings.TrimSpace(l.path)
	if path == "" {
		return Defaults(), errors.New("empty config path")
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.cached = Defaults()
			l.lastRead = fileState{}
			return l.cached, nil
		}
		return Defaults(), err
	}
	state := fileState{modTime: info.ModTime(), size: info.Size()}
	if state == l.lastRead {
		return l.cached, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults(), err
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), err
	}
	applyDefaults(&cfg)
	l.cached = cfg
	l.lastRead = state
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Panels.DocksEnabled == nil {
		docks := true
		cfg.Panels.DocksEnabled = &docks
	}
	if cfg.Panels.ShowDelayMS < 0 {
		cfg.Panels.ShowDelayMS = 0
	}
	if cfg.Panels.HideDelayMS < 0 {
		cfg.Panels.HideDelayMS = 0
	}
	if cfg.Sim.ScaleX <= 0 {
		cfg.Sim.ScaleX = defaultScaleX
	}
	if cfg.Sim.ScaleY <= 0 {
		cfg.Sim.ScaleY = defaultScaleY
	}
	cfg.Sim.SceneDir = strings.TrimSpace(cfg.Sim.SceneDir)
}
