// internal/status/tracker.go
package status

import (
	"sync"
	"time"

	"github.com/tamzrod/i2c-coordinator/internal/node"
)

// Tracker owns the health state of every node.
// It is safe for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	staleAfter int
	now        func() time.Time
	nodes      map[node.Addr]*entry
}

type entry struct {
	snap     Snapshot
	seen     bool // a successful poll happened
	errSince time.Time
}

// NewTracker creates a tracker. staleAfter <= 0 disables stale detection.
// now may be nil (time.Now).
func NewTracker(staleAfter int, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		staleAfter: staleAfter,
		now:        now,
		nodes:      make(map[node.Addr]*entry),
	}
}

// Observe folds one poll outcome into the node's snapshot.
// sample is ignored when err != nil.
// changed reports a health or error code transition.
func (t *Tracker) Observe(addr node.Addr, sample uint16, err error) (snap Snapshot, changed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.entry(addr)
	prev := e.snap

	if err != nil {
		if e.errSince.IsZero() {
			e.errSince = t.now()
		}
		e.snap.Health = HealthError
		e.snap.LastErrorCode = ErrorCode(err)
		e.snap.StalePolls = 0
		e.snap.SecondsInError = seconds(t.now().Sub(e.errSince))
	} else {
		e.errSince = time.Time{}
		e.snap.LastErrorCode = 0
		e.snap.SecondsInError = 0

		if e.seen && sample == e.snap.LastSample {
			e.snap.StalePolls++
		} else {
			e.snap.StalePolls = 0
		}
		e.snap.LastSample = sample
		e.seen = true

		if t.staleAfter > 0 && e.snap.StalePolls >= t.staleAfter {
			e.snap.Health = HealthStale
		} else {
			e.snap.Health = HealthOK
		}
	}

	changed = prev.Health != e.snap.Health || prev.LastErrorCode != e.snap.LastErrorCode
	return e.snap, changed
}

// Disable marks a node as stopped by the coordinator.
func (t *Tracker) Disable(addr node.Addr) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.entry(addr)
	changed := e.snap.Health != HealthDisabled
	e.snap.Health = HealthDisabled
	return e.snap, changed
}

// Snapshot returns the current state of a node.
func (t *Tracker) Snapshot(addr node.Addr) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.nodes[addr]
	if !ok {
		return Snapshot{Health: HealthUnknown}, false
	}
	return e.snap, true
}

func (t *Tracker) entry(addr node.Addr) *entry {
	e, ok := t.nodes[addr]
	if !ok {
		e = &entry{snap: Snapshot{Health: HealthUnknown}}
		t.nodes[addr] = e
	}
	return e
}

func seconds(d time.Duration) uint16 {
	s := int64(d / time.Second)
	if s < 0 {
		return 0
	}
	if s > MaxSecondsInError {
		return MaxSecondsInError
	}
	return uint16(s)
}
