package task

import (
	"cmp"
	"slices"
	"sync"
)

// TaskStore is the in-memory source of truth for task records. Every method
// returns copies so callers never share a record with the store.
type TaskStore struct {
	mu      sync.RWMutex
	records map[string]*Record

	// maxRecords bounds the store when positive. Only terminal records are
	// ever evicted to make room.
	maxRecords int
}

// NewTaskStore creates an empty store. A maxRecords of zero means unbounded.
func NewTaskStore(maxRecords int) *TaskStore {
	return &TaskStore{
		records:    make(map[string]*Record),
		maxRecords: maxRecords,
	}
}

// Put inserts a record. When the store is at capacity the oldest terminal
// record is evicted and its id returned; if every record is still live the
// insert fails with ErrStoreFull.
func (s *TaskStore) Put(rec Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted string
	if _, exists := s.records[rec.ID]; !exists && s.maxRecords > 0 && len(s.records) >= s.maxRecords {
		evicted = s.oldestTerminalLocked()
		if evicted == "" {
			return "", ErrStoreFull
		}
		delete(s.records, evicted)
	}

	stored := rec.clone()
	s.records[rec.ID] = &stored
	return evicted, nil
}

func (s *TaskStore) oldestTerminalLocked() string {
	var (
		oldestID string
		oldestAt int64
	)
	for id, rec := range s.records {
		if !rec.Status.IsTerminal() || rec.CompletedAt == nil {
			continue
		}
		if oldestID == "" || *rec.CompletedAt < oldestAt {
			oldestID, oldestAt = id, *rec.CompletedAt
		}
	}
	return oldestID
}

// Get returns a copy of the record with the given id.
func (s *TaskStore) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return Record{}, false
	}
	return rec.clone(), true
}

// Update applies mutate to the stored record under the write lock. The
// mutator reports whether it changed anything; the returned bool is false when
// the record is missing or the mutator declined.
func (s *TaskStore) Update(id string, mutate func(rec *Record) bool) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return Record{}, false
	}
	if !mutate(rec) {
		return rec.clone(), false
	}
	return rec.clone(), true
}

// ListActiveOrQueued returns every record that has not reached a terminal state.
func (s *TaskStore) ListActiveOrQueued() []Record {
	return s.list(func(rec *Record) bool { return !rec.Status.IsTerminal() })
}

// ListAll returns every record in submission order.
func (s *TaskStore) ListAll() []Record {
	return s.list(func(*Record) bool { return true })
}

func (s *TaskStore) list(keep func(rec *Record) bool) []Record {
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		if keep(rec) {
			out = append(out, rec.clone())
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Record) int {
		if c := cmp.Compare(a.CreatedAt, b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	return out
}

// Prune removes terminal records completed before cutoff (unix millis) and
// returns their ids.
func (s *TaskStore) Prune(cutoff int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for id, rec := range s.records {
		if rec.Status.IsTerminal() && rec.CompletedAt != nil && *rec.CompletedAt < cutoff {
			delete(s.records, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// Len returns the number of stored records.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
