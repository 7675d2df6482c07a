package sim

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

const logRingCap = 200

// logRing is a slog handler that keeps the newest records in a bounded
// ring for the simulator's event-log pane. While the program owns the
// terminal it replaces the default handler, since a stderr sink would
// tear the alternate screen.
type logRing struct {
	state *ringState
	attrs []slog.Attr
}

// ringState is shared by every WithAttrs clone of the handler.
type ringState struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
	gen   uint64
}

func newLogRing(capacity int) *logRing {
	if capacity <= 0 {
		capacity = logRingCap
	}
	return &logRing{state: &ringState{lines: make([]string, capacity)}}
}

func (r *logRing) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelDebug
}

func (r *logRing) Handle(_ context.Context, rec slog.Record) error {
	var sb strings.Builder
	sb.WriteString(rec.Time.Format("15:04:05.000"))
	sb.WriteByte(' ')
	sb.WriteString(rec.Level.String())
	sb.WriteByte(' ')
	sb.WriteString(rec.Message)
	for _, a := range r.attrs {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
	}
	rec.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		return true
	})

	s := r.state
	s.mu.Lock()
	s.lines[s.next] = sb.String()
	s.next++
	if s.next == len(s.lines) {
		s.next = 0
		s.full = true
	}
	s.gen++
	s.mu.Unlock()
	return nil
}

func (r *logRing) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return r
	}
	return &logRing{
		state: r.state,
		attrs: append(append([]slog.Attr{}, r.attrs...), attrs...),
	}
}

func (r *logRing) WithGroup(name string) slog.Handler { return r }

// Lines returns the buffered records, oldest first.
func (r *logRing) Lines() []string {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.full {
		return append([]string{}, s.lines[:s.next]...)
	}
	out := make([]string, 0, len(s.lines))
	out = append(out, s.lines[s.next:]...)
	out = append(out, s.lines[:s.next]...)
	return out
}

// Gen increments with every record; the model uses it to notice new
// lines without copying the buffer.
func (r *logRing) Gen() uint64 {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}
