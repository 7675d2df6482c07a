package sim

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// sceneWatcher reports scene files that changed in a directory. Events are
// debounced so an editor's save burst yields one change per file.
type sceneWatcher struct {
	fw      *fsnotify.Watcher
	changes chan string
	done    chan struct{}
}

func watchScenes(dir string) (*sceneWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}
	w := &sceneWatcher{
		fw:      fw,
		changes: make(chan string, 4),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Changes delivers paths of scene files that settled after a write burst.
// The channel closes when the watcher stops.
func (w *sceneWatcher) Changes() <-chan string { return w.changes }

func (w *sceneWatcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}

func (w *sceneWatcher) loop() {
	defer close(w.done)
	defer close(w.changes)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]struct{})

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !sceneFileEvent(ev) {
				continue
			}
			pending[ev.Name] = struct{}{}
			resetWatchTimer(timer, watchDebounce)
		case <-timer.C:
			for path := range pending {
				select {
				case w.changes <- path:
				default:
				}
			}
			clear(pending)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			slog.Warn("sim: scene watcher error", slog.Any("err", err))
		}
	}
}

func resetWatchTimer(timer *time.Timer, debounce time.Duration) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(debounce)
}

func sceneFileEvent(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	switch strings.ToLower(filepath.Ext(ev.Name)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}
