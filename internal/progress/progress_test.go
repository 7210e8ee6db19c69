package progress

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestSessionLogRingBound(t *testing.T) {
	s := NewSession("x", 1)
	for i := 0; i < maxLogLines+50; i++ {
		s.appendLog(fmt.Sprintf("line %d", i))
	}
	if len(s.Logs) != maxLogLines {
		t.Fatalf("log length = %d, want %d", len(s.Logs), maxLogLines)
	}
	if s.Logs[0] != "line 50" {
		t.Fatalf("oldest kept line = %q, want line 50", s.Logs[0])
	}
	if s.Logs[len(s.Logs)-1] != fmt.Sprintf("line %d", maxLogLines+49) {
		t.Fatalf("newest line = %q", s.Logs[len(s.Logs)-1])
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	if err := m.Put(ctx, NewSession("a", 3)); err != nil {
		t.Fatal(err)
	}
	s, ok, err := m.Get(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("get: %v %v", ok, err)
	}
	if s.SessionID != "a" || s.Total != 3 {
		t.Fatalf("session = %+v", s)
	}

	if _, ok, _ := m.Get(ctx, "missing"); ok {
		t.Fatal("found a session that was never stored")
	}

	if err := m.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := m.Get(ctx, "a"); ok {
		t.Fatal("session survived delete")
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	done := NewSession("done", 1)
	done.Finished = true
	done.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	_ = m.Put(ctx, done)

	running := NewSession("running", 1)
	running.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	_ = m.Put(ctx, running)

	recent := NewSession("recent", 1)
	recent.Finished = true
	_ = m.Put(ctx, recent)

	if n := m.Sweep(30 * time.Minute); n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	if _, ok, _ := m.Get(ctx, "done"); ok {
		t.Error("idle finished session not reaped")
	}
	if _, ok, _ := m.Get(ctx, "running"); !ok {
		t.Error("unfinished session was reaped")
	}
	if _, ok, _ := m.Get(ctx, "recent"); !ok {
		t.Error("recently finished session was reaped")
	}
}

// Once a company completes it must stop being "current"; pollers otherwise
// show a finished company as in flight through the inter-batch delay.
func TestTrackerClearsCurrentOnCompletion(t *testing.T) {
	tr, err := NewTracker(NewMemoryStore(), "run-1", 2)
	if err != nil {
		t.Fatal(err)
	}

	tr.SetCurrent("acme")
	tr.CompanyDone("acme", nil)
	if got := tr.Snapshot().Current; got != "" {
		t.Fatalf("current = %q after company completed, want cleared", got)
	}

	// a concurrent worker's marker survives another company's completion
	tr.SetCurrent("globex")
	tr.CompanyDone("acme", nil)
	if got := tr.Snapshot().Current; got != "globex" {
		t.Fatalf("current = %q, want globex", got)
	}
}

// completed always equals success+failed and never decreases, even with
// concurrent workers reporting.
func TestTrackerMonotonicCounters(t *testing.T) {
	store := NewMemoryStore()
	tr, err := NewTracker(store, "run-1", 20)
	if err != nil {
		t.Fatal(err)
	}

	stop := make(chan struct{})
	var obs sync.WaitGroup
	obs.Add(1)
	go func() {
		defer obs.Done()
		last := 0
		for {
			select {
			case <-stop:
				return
			default:
			}
			s := tr.Snapshot()
			if s.Completed < last {
				t.Errorf("completed decreased: %d -> %d", last, s.Completed)
				return
			}
			if s.Completed != s.Success+s.Failed {
				t.Errorf("completed=%d != success+failed=%d", s.Completed, s.Success+s.Failed)
				return
			}
			last = s.Completed
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%4 == 0 {
				err = fmt.Errorf("boom %d", i)
			}
			tr.CompanyDone(fmt.Sprintf("co-%d", i), err)
		}(i)
	}
	wg.Wait()
	close(stop)
	obs.Wait()

	tr.Finish("done")
	s := tr.Snapshot()
	if s.Completed != 20 || s.Success != 15 || s.Failed != 5 {
		t.Fatalf("final counters: %+v", s)
	}
	if !s.Finished {
		t.Fatal("session not finished")
	}

	// the store sees the same terminal state
	stored, ok, _ := store.Get(context.Background(), "run-1")
	if !ok || stored.Completed != 20 || !stored.Finished {
		t.Fatalf("stored session: %+v ok=%v", stored, ok)
	}
}
