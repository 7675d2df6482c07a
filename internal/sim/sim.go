// Package sim runs the panel engine inside a terminal. A bubbletea program
// owns a fake root window sized in pixels, maps terminal cells onto it, and
// feeds pointer and timer events to a real PanelManager, so packing, drags,
// docks and the collapsed-panel reveal behave exactly as they do against a
// display server.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/regenrek/paneldeck/internal/panelcfg"
	"github.com/regenrek/paneldeck/internal/scene"
)

// Options selects what the simulator runs and where scenes come from.
type Options struct {
	Config    panelcfg.Config
	ScenePath string // scene file to open; empty means the embedded demo
	SceneDir  string // directory backing the scene picker
	Watch     bool   // reload the active scene when its file changes
	Version   string // running app version, checked against min_app_version
}

type programRunner interface {
	Run() (tea.Model, error)
}

type runDeps struct {
	newProgram     func(tea.Model, ...tea.ProgramOption) programRunner
	darkBackground func() bool
}

var (
	newProgramFn = func(model tea.Model, opts ...tea.ProgramOption) programRunner {
		return tea.NewProgram(model, opts...)
	}
	darkBackgroundFn = termenv.HasDarkBackground
)

// Run starts the simulator and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	return runWith(ctx, opts, runDeps{})
}

func runWith(ctx context.Context, opts Options, deps runDeps) error {
	newProgram := deps.newProgram
	if newProgram == nil {
		newProgram = newProgramFn
	}
	darkBackground := deps.darkBackground
	if darkBackground == nil {
		darkBackground = darkBackgroundFn
	}

	if opts.ScenePath != "" {
		abs, err := filepath.Abs(opts.ScenePath)
		if err != nil {
			return fmt.Errorf("sim: resolve scene path: %w", err)
		}
		opts.ScenePath = abs
	}
	if opts.SceneDir != "" {
		abs, err := filepath.Abs(opts.SceneDir)
		if err != nil {
			return fmt.Errorf("sim: resolve scene dir: %w", err)
		}
		opts.SceneDir = abs
	}

	scn, err := loadScene(opts.ScenePath)
	if err != nil {
		return err
	}
	if err := scn.CheckAppVersion(opts.Version); err != nil {
		return err
	}

	// The TUI owns the terminal; route slog into the in-memory ring shown
	// by the log pane and restore the previous sink on exit.
	ring := newLogRing(logRingCap)
	prev := slog.Default()
	slog.SetDefault(slog.New(ring))
	defer slog.SetDefault(prev)

	var watch *sceneWatcher
	if opts.Watch {
		if dir := watchDir(opts); dir != "" {
			watch, err = watchScenes(dir)
			if err != nil {
				return fmt.Errorf("sim: watch scenes: %w", err)
			}
			defer func() { _ = watch.Close() }()
		} else {
			slog.Warn("sim: nothing to watch, embedded demo scene has no file")
		}
	}

	m := NewModel(opts, scn, opts.ScenePath, ring, watch, darkBackground())
	p := newProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	return nil
}

func loadScene(path string) (*scene.Scene, error) {
	if path == "" {
		return scene.LoadDefault()
	}
	return scene.LoadFile(path)
}

// watchDir picks the directory whose scene files drive reloads: the opened
// scene's own directory, else the picker directory.
func watchDir(opts Options) string {
	if opts.ScenePath != "" {
		return filepath.Dir(opts.ScenePath)
	}
	return opts.SceneDir
}
