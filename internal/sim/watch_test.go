package sim

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestSceneFileEvent(t *testing.T) {
	for _, tc := range []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"yml write", fsnotify.Event{Name: "a.yml", Op: fsnotify.Write}, true},
		{"yaml create", fsnotify.Event{Name: "b.yaml", Op: fsnotify.Create}, true},
		{"uppercase ext", fsnotify.Event{Name: "c.YML", Op: fsnotify.Write}, true},
		{"remove", fsnotify.Event{Name: "a.yml", Op: fsnotify.Remove}, true},
		{"rename", fsnotify.Event{Name: "a.yml", Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: "a.yml", Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, false},
		{"no extension", fsnotify.Event{Name: "Makefile", Op: fsnotify.Write}, false},
	} {
		if got := sceneFileEvent(tc.ev); got != tc.want {
			t.Errorf("%s: sceneFileEvent(%v %s) = %v, want %v",
				tc.name, tc.ev.Op, tc.ev.Name, got, tc.want)
		}
	}
}

func TestSceneWatcherReportsSettledWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := watchScenes(dir)
	if err != nil {
		t.Fatalf("watchScenes() error: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "demo.yml")
	if err := os.WriteFile(path, []byte("version: 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case got, ok := <-w.Changes():
			if !ok {
				t.Fatal("Changes() closed before reporting the write")
			}
			if got == path {
				return
			}
		case <-deadline:
			t.Fatalf("no change reported for %s", path)
		}
	}
}

func TestSceneWatcherCloseEndsChangeStream(t *testing.T) {
	w, err := watchScenes(t.TempDir())
	if err != nil {
		t.Fatalf("watchScenes() error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if _, ok := <-w.Changes(); ok {
		t.Fatal("Changes() still open after Close")
	}
}
