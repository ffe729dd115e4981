package task

import "sync"

type activeEntry struct {
	id    string
	token *Token
}

// ActiveSet tracks the tasks of one category that are currently dispatched to
// a worker pool.
type ActiveSet struct {
	mu      sync.Mutex
	entries map[string]*Token
	peak    int
}

// NewActiveSet creates an empty active set
func NewActiveSet() *ActiveSet {
	return &ActiveSet{entries: make(map[string]*Token)}
}

// Insert records id as running.
func (a *ActiveSet) Insert(id string, token *Token) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries[id] = token
	if len(a.entries) > a.peak {
		a.peak = len(a.entries)
	}
}

// Remove drops id and reports whether it was present.
func (a *ActiveSet) Remove(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.entries[id]; !ok {
		return false
	}
	delete(a.entries, id)
	return true
}

// Contains reports whether id is running.
func (a *ActiveSet) Contains(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.entries[id]
	return ok
}

// Len returns the active count.
func (a *ActiveSet) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// Peak returns the largest size the set has reached.
func (a *ActiveSet) Peak() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.peak
}

func (a *ActiveSet) snapshot() []activeEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]activeEntry, 0, len(a.entries))
	for id, token := range a.entries {
		out = append(out, activeEntry{id: id, token: token})
	}
	return out
}
