package scheduler

import "github.com/nm-morais/go-sched/pkg/timer"

type timerEntry struct {
	timer      timer.Timer
	remaining  int
	generation uint64
}

// registry maps timer IDs to their active schedule. It is exclusively owned
// by the dispatch loop, so it needs no internal locking.
type registry struct {
	entries map[timer.ID]*timerEntry
	lastGen uint64
}

func newRegistry() *registry {
	return &registry{
		entries: make(map[timer.ID]*timerEntry),
	}
}

// put installs t, discarding any previous schedule for the same ID. The new
// entry carries a fresh generation so countdowns scheduled against the old
// entry are recognized as stale when they come due.
func (r *registry) put(t timer.Timer) *timerEntry {
	r.lastGen++
	entry := &timerEntry{
		timer:      t,
		remaining:  t.Repeat(),
		generation: r.lastGen,
	}
	r.entries[t.ID()] = entry
	return entry
}

func (r *registry) lookup(id timer.ID) (*timerEntry, bool) {
	entry, ok := r.entries[id]
	return entry, ok
}

// remove deletes the entry for id if present, else is a no-op.
func (r *registry) remove(id timer.ID) {
	delete(r.entries, id)
}

// clear removes every entry. Used on shutdown.
func (r *registry) clear() {
	r.entries = make(map[timer.ID]*timerEntry)
}

func (r *registry) size() int {
	return len(r.entries)
}
