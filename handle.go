package lcevc

import "sync"

// Handle is an opaque, pointer-sized identifier for an entry in an Arena.
// Per the "Opaque handles as integer ids" design note, the public-facing
// identity of a decoder-owned resource is a typed index rather than a raw
// pointer, so lookups can be bounds-checked and invalid ids rejected with
// InvalidParam instead of crashing.
type Handle uint64

// invalidHandle is never issued by Arena.Insert; zero value of Handle.
const invalidHandle Handle = 0

// Arena is a generic store of entries addressed by Handle. It is safe for
// concurrent use; the task pool (internal/taskpool) may look up plane or
// tile state from multiple goroutines while a frame decode is in flight.
type Arena[T any] struct {
	mu      sync.RWMutex
	entries map[Handle]T
	next    uint64
}

// NewArena returns an empty arena.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{entries: make(map[Handle]T)}
}

// Insert stores v and returns a fresh handle for it.
func (a *Arena[T]) Insert(v T) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	h := Handle(a.next)
	a.entries[h] = v
	return h
}

// Get looks up the entry for h. The bool result is false (and the status is
// InvalidParam-worthy) for a handle that was never issued or already
// removed.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.entries[h]
	return v, ok
}

// Remove deletes the entry for h, if present.
func (a *Arena[T]) Remove(h Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.entries, h)
}

// Len reports the number of live entries.
func (a *Arena[T]) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}
