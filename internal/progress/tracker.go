package progress

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Tracker owns one session for the duration of a bulk run. All mutation goes
// through its mutex so the read-modify-write against the store never
// interleaves between the batch workers.
type Tracker struct {
	mu      sync.Mutex
	store   Store
	session Session
}

func NewTracker(store Store, id string, total int) (*Tracker, error) {
	t := &Tracker{store: store, session: NewSession(id, total)}
	if err := store.Put(context.Background(), t.session); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tracker) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.SessionID
}

// Logf appends a timestamped line to the session log.
func (t *Tracker) Logf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	line := time.Now().Format("15:04:05") + " " + fmt.Sprintf(format, args...)
	t.session.appendLog(line)
	t.flushLocked()
}

func (t *Tracker) SetCurrent(label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session.Current = label
	t.flushLocked()
}

// CompanyDone records one finished unit of work. completed always equals
// success+failed, so both move under the same lock.
func (t *Tracker) CompanyDone(label string, fetchErr error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// a completed company is no longer in flight; another worker may have
	// already claimed the marker, so only clear our own
	if t.session.Current == label {
		t.session.Current = ""
	}

	t.session.Completed++
	if fetchErr != nil {
		t.session.Failed++
		t.session.appendError(fmt.Sprintf("%s: %v", label, fetchErr))
		t.session.appendLog(time.Now().Format("15:04:05") + " " + fmt.Sprintf("%s failed: %v", label, fetchErr))
	} else {
		t.session.Success++
		t.session.appendLog(time.Now().Format("15:04:05") + " " + fmt.Sprintf("%s done", label))
	}
	t.flushLocked()
}

func (t *Tracker) Finish(summary string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session.Finished = true
	t.session.Current = ""
	if summary != "" {
		t.session.appendLog(time.Now().Format("15:04:05") + " " + summary)
	}
	t.flushLocked()
}

// Snapshot returns a copy of the current session state.
func (t *Tracker) Snapshot() Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.clone()
}

func (t *Tracker) flushLocked() {
	t.session.UpdatedAt = time.Now().UTC()
	// store errors are not worth failing a fetch run over; the run itself
	// is the source of truth, the session is just the progress view
	_ = t.store.Put(context.Background(), t.session)
}
