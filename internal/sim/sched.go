package sim

import (
	"sort"
	"time"
)

// tickScheduler adapts the simulator's frame tick to panels.Scheduler.
// The engine runs on bubbletea's update goroutine, so unlike evloop there
// is no locking and no goroutine of its own: the model calls Advance once
// per tick message and arms the next tick only while entries remain.
//
// Firing semantics match evloop: due entries run in deadline order, then
// registration order; a recurring entry that fell behind resumes its
// cadence from now; map membership decides liveness, so a callback
// canceling a peer due in the same pass wins; one-shots are consumed
// before their callback runs.
type tickScheduler struct {
	entries map[int]*tickEntry
	nextID  int
	nextSeq int
	now     func() time.Time
}

type tickEntry struct {
	id        int
	seq       int
	deadline  time.Time
	recurring time.Duration
	fn        func()
}

func newTickScheduler() *tickScheduler {
	return &tickScheduler{
		entries: make(map[int]*tickEntry),
		nextID:  1,
		now:     time.Now,
	}
}

// AddTimeout schedules fn after initial, then every recurring period if
// recurring is positive.
func (s *tickScheduler) AddTimeout(fn func(), initial, recurring time.Duration) int {
	if fn == nil {
		panic("sim: nil timeout callback")
	}
	id := s.nextID
	s.nextID++
	s.nextSeq++
	s.entries[id] = &tickEntry{
		id:        id,
		seq:       s.nextSeq,
		deadline:  s.now().Add(initial),
		recurring: recurring,
		fn:        fn,
	}
	return id
}

// RemoveTimeout cancels an entry. Unknown ids are ignored.
func (s *tickScheduler) RemoveTimeout(id int) {
	delete(s.entries, id)
}

// Pending reports whether any entry is armed. The model stops ticking
// when nothing is.
func (s *tickScheduler) Pending() bool { return len(s.entries) > 0 }

// Advance fires every entry due at now. Entries added by callbacks during
// the pass wait for the next one, even when already due.
func (s *tickScheduler) Advance(now time.Time) {
	var due []*tickEntry
	for _, e := range s.entries {
		if !e.deadline.After(now) {
			due = append(due, e)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].deadline.Equal(due[j].deadline) {
			return due[i].deadline.Before(due[j].deadline)
		}
		return due[i].seq < due[j].seq
	})
	for _, e := range due {
		if e.recurring > 0 {
			e.deadline = e.deadline.Add(e.recurring)
			if !e.deadline.After(now) {
				// Fell behind; resume cadence from now instead of
				// replaying every missed period.
				e.deadline = now.Add(e.recurring)
			}
		}
	}
	for _, e := range due {
		if _, ok := s.entries[e.id]; !ok {
			continue
		}
		if e.recurring <= 0 {
			delete(s.entries, e.id)
		}
		e.fn()
	}
}
