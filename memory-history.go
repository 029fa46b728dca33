package vgnav

import (
	"sync"

	"github.com/google/uuid"
)

// MemoryHistory implements History with an in-memory stack of entries.
// It is used in tests and anywhere there is no browser; Back, Forward
// and Go play the part of the browser's buttons.
type MemoryHistory struct {
	mu       sync.Mutex
	entries  []Location
	idx      int
	listener func(path string)
}

// NewMemoryHistory returns a MemoryHistory with a single entry for start.
func NewMemoryHistory(start string) *MemoryHistory {
	return &MemoryHistory{
		entries: []Location{newLocation(start)},
	}
}

func newLocation(p string) Location {
	return Location{Path: p, Token: uuid.NewString()}
}

// CurrentPath implements History.
func (h *MemoryHistory) CurrentPath() string {
	return h.Location().Path
}

// Location returns the current entry.
func (h *MemoryHistory) Location() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.idx]
}

// Push implements History.  Any entries forward of the current one are dropped.
func (h *MemoryHistory) Push(p string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.idx+1], newLocation(p))
	h.idx++
}

// Replace implements History.
func (h *MemoryHistory) Replace(p string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.idx] = newLocation(p)
}

// OnPopNavigation implements History.
func (h *MemoryHistory) OnPopNavigation(f func(path string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listener = f
}

// Len returns the number of entries on the stack.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Index returns the position of the current entry.
func (h *MemoryHistory) Index() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.idx
}

// Back is like pressing the browser's back button.
func (h *MemoryHistory) Back() bool { return h.Go(-1) }

// Forward is like pressing the browser's forward button.
func (h *MemoryHistory) Forward() bool { return h.Go(1) }

// Go moves n entries through the stack and notifies the pop listener.
// It returns false and does nothing if that would leave the stack.
func (h *MemoryHistory) Go(n int) bool {
	h.mu.Lock()
	to := h.idx + n
	if n == 0 || to < 0 || to >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.idx = to
	p, f := h.entries[to].Path, h.listener
	h.mu.Unlock()

	// called without the lock so the listener may read the history
	if f != nil {
		f(p)
	}
	return true
}
