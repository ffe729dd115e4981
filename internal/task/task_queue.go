package task

import (
	"log/slog"
	"slices"
	"sync"
)

// TaskQueue is the FIFO holding pen for tasks of one category that have not
// been dispatched yet. It stores task ids; records live in the TaskStore.
type TaskQueue struct {
	category Category
	mu       sync.Mutex
	ids      []string
	logger   *slog.Logger
}

// NewTaskQueue creates an empty queue for the given category
func NewTaskQueue(category Category, logger *slog.Logger) *TaskQueue {
	return &TaskQueue{
		category: category,
		logger:   logger,
	}
}

// Enqueue appends a task id to the tail of the queue
func (q *TaskQueue) Enqueue(id string) {
	q.mu.Lock()
	q.ids = append(q.ids, id)
	n := len(q.ids)
	q.mu.Unlock()

	q.logger.Debug("task enqueued",
		"task_id", id,
		"category", q.category,
		"queue_len", n)
}

// TryDequeue removes and returns the head of the queue. The bool is false when
// the queue is empty.
func (q *TaskQueue) TryDequeue() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.ids) == 0 {
		return "", false
	}
	id := q.ids[0]
	q.ids[0] = ""
	q.ids = q.ids[1:]
	return id, true
}

// RemoveByID removes a task that is still waiting. It reports false when the
// id is not in the queue.
func (q *TaskQueue) RemoveByID(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := slices.Index(q.ids, id)
	if i < 0 {
		return false
	}
	q.ids = slices.Delete(q.ids, i, i+1)
	return true
}

// Drain empties the queue and returns the removed ids in FIFO order.
func (q *TaskQueue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	drained := q.ids
	q.ids = nil
	return drained
}

// Len returns the number of waiting tasks
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids)
}
