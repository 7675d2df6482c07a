package sim

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/regenrek/paneldeck/internal/panelcfg"
)

type stubProgram struct {
	model tea.Model
	err   error
}

func (p stubProgram) Run() (tea.Model, error) { return p.model, p.err }

func TestRunWithLoadsEmbeddedDemoScene(t *testing.T) {
	var got tea.Model
	deps := runDeps{
		newProgram: func(m tea.Model, _ ...tea.ProgramOption) programRunner {
			got = m
			return stubProgram{model: m}
		},
		darkBackground: func() bool { return true },
	}

	prev := slog.Default()
	err := runWith(context.Background(), Options{Config: panelcfg.Defaults(), Version: "1.2.3"}, deps)
	if err != nil {
		t.Fatalf("runWith() error: %v", err)
	}
	if slog.Default() != prev {
		t.Error("slog default not restored after runWith")
	}

	m, ok := got.(Model)
	if !ok {
		t.Fatalf("program model = %T, want sim.Model", got)
	}
	if n := m.mgr.NumPanels(); n != 4 {
		t.Errorf("NumPanels() = %d, want 4 demo panels", n)
	}
	if m.scenePath != "" {
		t.Errorf("scenePath = %q, want empty for the embedded demo", m.scenePath)
	}
	if m.watch != nil {
		t.Error("watch != nil without --watch")
	}
}

func TestRunWithWrapsProgramError(t *testing.T) {
	sentinel := errors.New("boom")
	deps := runDeps{
		newProgram: func(tea.Model, ...tea.ProgramOption) programRunner {
			return stubProgram{err: sentinel}
		},
		darkBackground: func() bool { return false },
	}

	err := runWith(context.Background(), Options{Config: panelcfg.Defaults(), Version: "1.2.3"}, deps)
	if err == nil || !errors.Is(err, sentinel) {
		t.Fatalf("runWith() err = %v, want wrapped %v", err, sentinel)
	}
	if !strings.HasPrefix(err.Error(), "sim: ") {
		t.Errorf("runWith() err = %q, want sim: prefix", err)
	}
}

func TestRunWithRejectsOldAppVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strict.yml")
	writeSceneFile(t, path, `
version: 1
min_app_version: "9.0.0"
screen: {width: 1024, height: 768}
panels:
  - title: alpha
    width: 200
    titlebar_height: 20
    content_height: 300
    expanded: true
`)

	started := false
	deps := runDeps{
		newProgram: func(m tea.Model, _ ...tea.ProgramOption) programRunner {
			started = true
			return stubProgram{model: m}
		},
		darkBackground: func() bool { return true },
	}

	err := runWith(context.Background(), Options{
		Config:    panelcfg.Defaults(),
		ScenePath: path,
		Version:   "0.5.0",
	}, deps)
	if err == nil || !strings.Contains(err.Error(), "requires app >= 9.0.0") {
		t.Fatalf("runWith() err = %v, want version gate failure", err)
	}
	if started {
		t.Error("program started despite the version gate")
	}
}

func TestRunWithMissingSceneFile(t *testing.T) {
	deps := runDeps{
		newProgram: func(m tea.Model, _ ...tea.ProgramOption) programRunner {
			return stubProgram{model: m}
		},
		darkBackground: func() bool { return true },
	}

	err := runWith(context.Background(), Options{
		Config:    panelcfg.Defaults(),
		ScenePath: filepath.Join(t.TempDir(), "absent.yml"),
		Version:   "1.2.3",
	}, deps)
	if err == nil {
		t.Fatal("runWith() succeeded with a missing scene file")
	}
}

func TestRunWithWatchOpensSceneWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.yml")
	writeSceneFile(t, path, `
version: 1
min_app_version: "0.1.0"
screen: {width: 1024, height: 768}
panels:
  - title: alpha
    width: 200
    titlebar_height: 20
    content_height: 300
    expanded: true
    focus: true
`)

	var got tea.Model
	err := runWith(context.Background(), Options{
		Config:    panelcfg.Defaults(),
		ScenePath: path,
		Watch:     true,
		Version:   "1.2.3",
	}, runDeps{
		newProgram: func(m tea.Model, _ ...tea.ProgramOption) programRunner {
			got = m
			return stubProgram{model: m}
		},
		darkBackground: func() bool { return true },
	})
	if err != nil {
		t.Fatalf("runWith() error: %v", err)
	}

	m, ok := got.(Model)
	if !ok {
		t.Fatalf("program model = %T, want sim.Model", got)
	}
	if m.watch == nil {
		t.Error("watch = nil, want a scene watcher when --watch is set")
	}
	if m.scenePath != path {
		t.Errorf("scenePath = %q, want %q", m.scenePath, path)
	}
}

func TestWatchDirPrefersOpenSceneDirectory(t *testing.T) {
	scenePath := filepath.Join("scenes", "a.yml")
	if got := watchDir(Options{ScenePath: scenePath, SceneDir: "elsewhere"}); got != "scenes" {
		t.Errorf("watchDir() = %q, want %q", got, "scenes")
	}
	if got := watchDir(Options{SceneDir: "elsewhere"}); got != "elsewhere" {
		t.Errorf("watchDir() = %q, want picker directory", got)
	}
	if got := watchDir(Options{}); got != "" {
		t.Errorf("watchDir() = %q, want empty", got)
	}
}
