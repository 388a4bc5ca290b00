package bridge

import (
	"sync"

	"github.com/wudi/ocrbridge/engine"
)

// Handle identifies one live engine instance. It packs a slot index in the
// low 32 bits and the slot's generation above it. Zero is never a valid
// handle: slot 0 is reserved, so any handle with a live index is non-zero.
//
// A destroyed handle fails the generation check on every later use instead
// of reaching a freed instance, which turns use-after-destroy and double
// destroy into detectable no-ops.
type Handle uint64

// Generations are capped below 2^21 so every issued handle stays within the
// exact-integer range of a float64, allowing embedding runtimes that only
// have doubles to carry handles without corruption.
const generationLimit = 1 << 21

func makeHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) index() uint32      { return uint32(h) }
func (h Handle) generation() uint32 { return uint32(h >> 32) }

type slot struct {
	analyzer   engine.Analyzer
	generation uint32
	live       bool
}

// handleTable is the arena of live engine instances. Slots are recycled
// through a free list; each recycle bumps the slot generation, invalidating
// handles issued for earlier occupants.
type handleTable struct {
	mu    sync.Mutex
	slots []slot
	free  []uint32
}

func (t *handleTable) insert(a engine.Analyzer) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.slots == nil {
		t.slots = make([]slot, 1) // slot 0 stays vacant
	}
	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot{})
		idx = uint32(len(t.slots) - 1)
	}
	s := &t.slots[idx]
	s.analyzer = a
	s.live = true
	return makeHandle(idx, s.generation)
}

// lookup returns the instance a handle refers to, or false for zero, stale,
// or out-of-range handles.
func (t *handleTable) lookup(h Handle) (engine.Analyzer, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.slot(h)
	if s == nil {
		return nil, false
	}
	return s.analyzer, true
}

// remove invalidates the handle and returns the instance for the caller to
// close outside the table lock.
func (t *handleTable) remove(h Handle) (engine.Analyzer, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.slot(h)
	if s == nil {
		return nil, false
	}
	a := s.analyzer
	s.analyzer = nil
	s.live = false
	s.generation = (s.generation + 1) % generationLimit
	t.free = append(t.free, h.index())
	return a, true
}

func (t *handleTable) liveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for i := range t.slots {
		if t.slots[i].live {
			n++
		}
	}
	return n
}

// slot resolves a handle to its live slot; callers hold t.mu.
func (t *handleTable) slot(h Handle) *slot {
	idx := h.index()
	if idx == 0 || int(idx) >= len(t.slots) {
		return nil
	}
	s := &t.slots[idx]
	if !s.live || s.generation != h.generation() {
		return nil
	}
	return s
}
