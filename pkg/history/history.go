// Package history abstracts the environment's navigation history.
//
// The router pushes and replaces entries as navigations commit, and
// subscribes to pop notifications (the browser's back/forward buttons).
// Every entry carries the navigated path and a timestamp; this is the
// state object shape readable on pop even for entries created before
// the router attached.
package history

import (
	"sync"
	"time"
)

// Entry is the state stored on every history entry.
type Entry struct {
	Path      string `json:"path"`
	Timestamp int64  `json:"timestamp"`
}

// NewEntry creates an entry for the given path stamped with the current
// time in milliseconds.
func NewEntry(path string) Entry {
	return Entry{Path: path, Timestamp: time.Now().UnixMilli()}
}

// History is the environment-provided navigation history.
// Implementations must be safe for concurrent use.
type History interface {
	// Push appends a new entry and makes it current.
	Push(e Entry)

	// Replace swaps the current entry without growing the stack.
	Replace(e Entry)

	// Current returns the current entry. ok is false when the history
	// is empty (the router has not committed a navigation yet).
	Current() (e Entry, ok bool)

	// Back moves to the previous entry, notifying pop listeners.
	Back()

	// Forward moves to the next entry, notifying pop listeners.
	Forward()

	// Listen registers a pop listener and returns its cancel function.
	Listen(fn func(Entry)) (cancel func())
}

// Memory is an in-memory History used by tests and server-side runs.
// It mirrors browser semantics: pushing while back in the stack
// truncates the forward entries.
type Memory struct {
	mu        sync.Mutex
	stack     []Entry
	index     int
	listeners map[int]func(Entry)
	nextID    int
}

// NewMemory creates an empty in-memory history.
func NewMemory() *Memory {
	return &Memory{
		index:     -1,
		listeners: make(map[int]func(Entry)),
	}
}

// Push implements History.
func (h *Memory) Push(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stack = append(h.stack[:h.index+1], e)
	h.index = len(h.stack) - 1
}

// Replace implements History.
func (h *Memory) Replace(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index < 0 {
		h.stack = append(h.stack, e)
		h.index = 0
		return
	}
	h.stack[h.index] = e
}

// Current implements History.
func (h *Memory) Current() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index < 0 {
		return Entry{}, false
	}
	return h.stack[h.index], true
}

// Back implements History.
func (h *Memory) Back() {
	h.mu.Lock()
	if h.index <= 0 {
		h.mu.Unlock()
		return
	}
	h.index--
	e := h.stack[h.index]
	fns := h.snapshotListeners()
	h.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Forward implements History.
func (h *Memory) Forward() {
	h.mu.Lock()
	if h.index >= len(h.stack)-1 {
		h.mu.Unlock()
		return
	}
	h.index++
	e := h.stack[h.index]
	fns := h.snapshotListeners()
	h.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Listen implements History.
func (h *Memory) Listen(fn func(Entry)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// Len returns the number of entries in the stack.
func (h *Memory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stack)
}

// Entries returns a copy of the stack, oldest first.
func (h *Memory) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(h.stack))
	copy(out, h.stack)
	return out
}

// snapshotListeners must be called with the mutex held.
func (h *Memory) snapshotListeners() []func(Entry) {
	fns := make([]func(Entry), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	return fns
}
