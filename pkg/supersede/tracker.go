// Package supersede implements latest-wins request tracking: starting a new
// operation for a key cancels the in-flight one and marks its result stale.
package supersede

import (
	"context"
	"sync"
)

type entry struct {
	gen    uint64
	cancel context.CancelFunc
}

// Tracker hands out generation tickets per key. The zero value is not usable; call New.
type Tracker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func New() *Tracker {
	return &Tracker{entries: make(map[string]*entry)}
}

// Ticket identifies one generation of work for a key.
type Ticket struct {
	t      *Tracker
	key    string
	gen    uint64
	cancel context.CancelFunc
}

// Begin starts a new generation for key. The previous generation, if still
// running, has its context cancelled. The returned context must be used for
// the tracked work and Done must be called when it finishes.
func (t *Tracker) Begin(ctx context.Context, key string) (context.Context, *Ticket) {
	cctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok {
		e = &entry{}
		t.entries[key] = e
	}
	if e.cancel != nil {
		e.cancel()
	}
	e.gen++
	e.cancel = cancel

	return cctx, &Ticket{t: t, key: key, gen: e.gen, cancel: cancel}
}

// Current reports whether no newer generation has started for the ticket's key.
func (tk *Ticket) Current() bool {
	tk.t.mu.Lock()
	defer tk.t.mu.Unlock()
	e, ok := tk.t.entries[tk.key]
	return ok && e.gen == tk.gen
}

// Done releases the ticket. Safe to call more than once.
func (tk *Ticket) Done() {
	tk.cancel()

	tk.t.mu.Lock()
	defer tk.t.mu.Unlock()
	if e, ok := tk.t.entries[tk.key]; ok && e.gen == tk.gen {
		delete(tk.t.entries, tk.key)
	}
}

// Len returns the number of keys with work in flight.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
