// Package evloop implements the single-goroutine dispatch loop the panel
// engine runs on. All engine state is touched only from callbacks fired by
// the loop, so the engine itself needs no locking.
package evloop

import (
	"sort"
	"sync"
	"time"
)

// Loop dispatches posted tasks and timeouts on a single goroutine.
type Loop struct {
	mu      sync.Mutex
	timers  map[int]*timer
	tasks   []func()
	nextID  int
	nextSeq int
	wake    chan struct{}
	exiting bool
	done    chan struct{}
}

type timer struct {
	id        int
	seq       int
	deadline  time.Time
	recurring time.Duration
	fn        func()
}

// New creates an idle loop. Call Run to start dispatching.
func New() *Loop {
	return &Loop{
		timers: make(map[int]*timer),
		nextID: 1,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// AddTimeout schedules fn to run after initial, and then every recurring
// period if recurring is positive. It returns an id usable with
// RemoveTimeout. Safe to call from loop callbacks and from other goroutines.
func (l *Loop) AddTimeout(fn func(), initial, recurring time.Duration) int {
	if fn == nil {
		panic("evloop: nil timeout callback")
	}
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.nextSeq++
	l.timers[id] = &timer{
		id:        id,
		seq:       l.nextSeq,
		deadline:  time.Now().Add(initial),
		recurring: recurring,
		fn:        fn,
	}
	l.mu.Unlock()
	l.kick()
	return id
}

// RemoveTimeout cancels a timeout. Unknown ids are ignored. A callback may
// cancel itself or a peer; a canceled peer that was due in the same dispatch
// pass will not fire.
func (l *Loop) RemoveTimeout(id int) {
	l.mu.Lock()
	delete(l.timers, id)
	l.mu.Unlock()
}

// PostTask queues fn to run on the next dispatch pass. This is the entry
// point for other goroutines that need engine state.
func (l *Loop) PostTask(fn func()) {
	if fn == nil {
		panic("evloop: nil task")
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	l.kick()
}

// Run dispatches until Exit is called. It must be invoked from exactly one
// goroutine.
func (l *Loop) Run() {
	defer close(l.done)
	for {
		tasks, due, wait, exiting := l.collect()
		for _, fn := range tasks {
			fn()
		}
		for _, t := range due {
			if l.takeFire(t) {
				t.fn()
			}
		}
		if exiting {
			return
		}
		if wait < 0 {
			<-l.wake
			continue
		}
		if wait == 0 {
			continue
		}
		tm := time.NewTimer(wait)
		select {
		case <-l.wake:
		case <-tm.C:
		}
		tm.Stop()
	}
}

// Exit makes Run return after the current dispatch pass.
func (l *Loop) Exit() {
	l.mu.Lock()
	l.exiting = true
	l.mu.Unlock()
	l.kick()
}

// Wait blocks until Run has returned.
func (l *Loop) Wait() {
	<-l.done
}

// collect snapshots pending tasks and due timers (deadline order, then
// registration order), re-arms recurring ones, and reports how long Run may
// sleep (-1: nothing scheduled, block on wake).
func (l *Loop) collect() (tasks []func(), due []*timer, wait time.Duration, exiting bool) {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	tasks = l.tasks
	l.tasks = nil

	for _, t := range l.timers {
		if !t.deadline.After(now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].deadline.Equal(due[j].deadline) {
			return due[i].deadline.Before(due[j].deadline)
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		if t.recurring <= 0 {
			continue
		}
		t.deadline = t.deadline.Add(t.recurring)
		if !t.deadline.After(now) {
			// Fell behind; resume cadence from now instead of replaying
			// every missed period.
			t.deadline = now.Add(t.recurring)
		}
	}

	if l.exiting {
		return tasks, due, 0, true
	}
	wait = -1
	for _, t := range l.timers {
		d := t.deadline.Sub(now)
		if d < 0 {
			d = 0
		}
		if wait < 0 || d < wait {
			wait = d
		}
	}
	return tasks, due, wait, false
}

// takeFire decides whether a due timer still fires: map membership is the
// liveness test, so a cancellation from an earlier callback in the same pass
// wins. One-shots are consumed here, before their callback runs.
func (l *Loop) takeFire(t *timer) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.timers[t.id]; !ok {
		return false
	}
	if t.recurring <= 0 {
		delete(l.timers, t.id)
	}
	return true
}

func (l *Loop) kick() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
