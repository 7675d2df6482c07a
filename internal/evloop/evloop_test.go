package evloop

import (
	"sync"
	"testing"
	"time"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := New()
	go l.Run()
	t.Cleanup(func() {
		l.Exit()
		l.Wait()
	})
	return l
}

func TestPostTaskRuns(t *testing.T) {
	l := startLoop(t)
	done := make(chan struct{})
	l.PostTask(func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("posted task never ran")
	}
}

func TestOneShotTimeoutFiresOnce(t *testing.T) {
	l := startLoop(t)
	var mu sync.Mutex
	count := 0
	fired := make(chan struct{}, 4)
	l.AddTimeout(func() {
		mu.Lock()
		count++
		mu.Unlock()
		fired <- struct{}{}
	}, 5*time.Millisecond, 0)

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout never fired")
	}
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Fatalf("one-shot fired %d times, want 1", count)
	}
}

func TestRecurringTimeoutRepeats(t *testing.T) {
	l := startLoop(t)
	fired := make(chan struct{}, 16)
	id := l.AddTimeout(func() { fired <- struct{}{} }, 0, 5*time.Millisecond)

	for i := 0; i < 3; i++ {
		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatalf("recurring fire %d never arrived", i+1)
		}
	}
	l.RemoveTimeout(id)
}

func TestRemoveTimeoutFromOwnCallback(t *testing.T) {
	l := startLoop(t)
	var mu sync.Mutex
	count := 0
	var id int
	ready := make(chan struct{})
	l.PostTask(func() {
		id = l.AddTimeout(func() {
			mu.Lock()
			count++
			mu.Unlock()
			l.RemoveTimeout(id)
		}, 0, 2*time.Millisecond)
		close(ready)
	})
	<-ready
	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Fatalf("recurring timeout fired %d times after self-removal, want 1", count)
	}
}

func TestCallbackCancelsPeerInSamePass(t *testing.T) {
	l := New()
	var peerRan bool
	var peerID int
	// Both are due immediately; the first to fire cancels the second.
	// Registration order breaks the deadline tie.
	done := make(chan struct{})
	l.PostTask(func() {
		l.AddTimeout(func() { l.RemoveTimeout(peerID) }, 0, 0)
		peerID = l.AddTimeout(func() { peerRan = true }, 0, 0)
		l.AddTimeout(func() { close(done) }, 10*time.Millisecond, 0)
	})
	go l.Run()
	defer func() {
		l.Exit()
		l.Wait()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sentinel timeout never fired")
	}
	if peerRan {
		t.Fatal("canceled peer callback ran anyway")
	}
}

func TestExitStopsDispatch(t *testing.T) {
	l := New()
	go l.Run()
	l.Exit()
	finished := make(chan struct{})
	go func() {
		l.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Exit")
	}
}
