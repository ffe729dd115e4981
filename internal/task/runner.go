package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// HostProfile describes the runtime the scheduler is deployed on.
type HostProfile string

const (
	// HostNative is a multi-threaded host with room for dedicated pools.
	HostNative HostProfile = "native"

	// HostConstrained is a single-process or cooperative host.
	HostConstrained HostProfile = "constrained"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// MaxConcurrent bounds the active set of each category
	MaxConcurrent map[Category]int

	// PoolStrategy selects dedicated per-category pools or one shared pool
	PoolStrategy PoolStrategy

	// SharedWorkers is the size of the shared pool. If zero, the largest
	// category limit is used.
	SharedWorkers int

	// TickInterval is the scheduler loop period
	TickInterval time.Duration

	// RetentionTTL removes terminal records older than this. Zero keeps them forever.
	RetentionTTL time.Duration

	// MaxRecords bounds the task store. Zero means unbounded.
	MaxRecords int

	// EventBuffer is the number of lifecycle events held for the sink.
	// Zero uses DefaultEventBuffer.
	EventBuffer int
}

// DefaultTaskRunnerConfig returns the limits for the given host profile
func DefaultTaskRunnerConfig(host HostProfile) TaskRunnerConfig {
	if host == HostConstrained {
		return TaskRunnerConfig{
			MaxConcurrent: map[Category]int{
				CategoryOCR:         2,
				CategoryTranslation: 2,
			},
			PoolStrategy:  PoolStrategyShared,
			SharedWorkers: 4,
			TickInterval:  100 * time.Millisecond,
		}
	}
	return TaskRunnerConfig{
		MaxConcurrent: map[Category]int{
			CategoryOCR:         5,
			CategoryTranslation: 5,
		},
		PoolStrategy: PoolStrategyDedicated,
		TickInterval: 100 * time.Millisecond,
	}
}

// TaskRunner owns the task store, queues, active sets and cancellation
// registry, and runs the scheduler loop over them.
type TaskRunner struct {
	config   TaskRunnerConfig
	store    *TaskStore
	queues   map[Category]*TaskQueue
	active   map[Category]*ActiveSet
	tokens   *CancellationRegistry
	pool     WorkerPool
	executor *Executor
	events   *eventDispatcher
	logger   *slog.Logger

	counter atomic.Uint64
	stopped atomic.Bool

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	startOnce  sync.Once
	stopOnce   sync.Once
}

// NewTaskRunner creates a TaskRunner. bodies and sink may be nil, in which
// case tasks run the simulated body and events are discarded.
func NewTaskRunner(config TaskRunnerConfig, bodies *BodyRegistry, sink EventSink, logger *slog.Logger) (*TaskRunner, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	for _, c := range Categories {
		if config.MaxConcurrent[c] <= 0 {
			return nil, fmt.Errorf("max concurrent for %s must be positive, got %d", c, config.MaxConcurrent[c])
		}
	}
	if config.TickInterval <= 0 {
		config.TickInterval = 100 * time.Millisecond
	}
	if bodies == nil {
		bodies = NewBodyRegistry(nil)
	}
	if sink == nil {
		sink = discardSink{}
	}

	logger = logger.With("component", "task_runner")

	total := 0
	for _, c := range Categories {
		total += config.MaxConcurrent[c]
	}
	sharedWorkers := config.SharedWorkers
	if sharedWorkers <= 0 {
		sharedWorkers = total
	}
	if config.PoolStrategy == PoolStrategyShared && sharedWorkers < total {
		logger.Warn("shared pool is smaller than the combined category limits, started tasks may wait for a worker",
			"shared_workers", sharedWorkers,
			"combined_limit", total)
	}
	pool, err := NewWorkerPool(WorkerPoolConfig{
		Strategy:      config.PoolStrategy,
		Workers:       config.MaxConcurrent,
		SharedWorkers: sharedWorkers,
		Backlog:       total * 2,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &TaskRunner{
		config:     config,
		store:      NewTaskStore(config.MaxRecords),
		queues:     make(map[Category]*TaskQueue, len(Categories)),
		active:     make(map[Category]*ActiveSet, len(Categories)),
		tokens:     NewCancellationRegistry(),
		pool:       pool,
		events:     newEventDispatcher(sink, config.EventBuffer, logger),
		logger:     logger,
		ctx:        ctx,
		cancelFunc: cancel,
	}
	for _, c := range Categories {
		r.queues[c] = NewTaskQueue(c, logger)
		r.active[c] = NewActiveSet()
	}
	r.executor = NewExecutor(pool, r.store, bodies, r.publish, logger)
	return r, nil
}

// Start launches the scheduler loop. Calling it again has no effect.
func (r *TaskRunner) Start() error {
	if r.stopped.Load() {
		return ErrRunnerStopped
	}
	r.startOnce.Do(func() {
		r.wg.Add(1)
		go r.loop()
		r.logger.Info("task runner started",
			"max_concurrent_ocr", r.config.MaxConcurrent[CategoryOCR],
			"max_concurrent_translation", r.config.MaxConcurrent[CategoryTranslation],
			"pool_strategy", r.config.PoolStrategy)
	})
	return nil
}

// Stop ends the scheduler loop and cancels every registered task. It waits
// for running bodies to return and for buffered events to reach the sink, but
// not for queued work to drain.
func (r *TaskRunner) Stop() {
	r.stopOnce.Do(func() {
		r.stopped.Store(true)
		r.cancelFunc()
		r.wg.Wait()
		r.tokens.Reset()
		r.pool.Stop()
		r.events.close()
		r.logger.Info("task runner stopped",
			"dropped_events", r.events.Dropped())
	})
}

// Submit records a new queued task and returns its id. It never blocks.
func (r *TaskRunner) Submit(category Category, subject Subject, params Parameters) (string, error) {
	if r.stopped.Load() {
		return "", ErrRunnerStopped
	}
	if !category.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	now := time.Now().UnixMilli()
	seq := r.counter.Add(1)
	rec := Record{
		ID:         fmt.Sprintf("bunny_task_%d_%d", now, seq),
		Category:   category,
		Status:     TaskStatusQueued,
		Subject:    subject,
		Parameters: params,
		CreatedAt:  now,
		seq:        seq,
	}
	rec.Parameters.SourceLang = clonePtr(params.SourceLang)

	evicted, err := r.store.Put(rec)
	if err != nil {
		return "", fmt.Errorf("failed to store task: %w", err)
	}
	if evicted != "" {
		r.tokens.Remove(evicted)
	}
	r.tokens.Create(rec.ID)

	// queued is buffered before the id becomes visible to the scheduler so it
	// always precedes started
	r.publish(EventTaskQueued, rec)
	r.queues[category].Enqueue(rec.ID)

	return rec.ID, nil
}

// Cancel cancels a task. A queued task is removed and marked cancelled before
// Cancel returns; a processing task only has its flag set and stops at its
// next cancellation check.
func (r *TaskRunner) Cancel(id string) error {
	rec, ok := r.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if rec.Status.IsTerminal() {
		return fmt.Errorf("%w: task %s is %s", ErrNotCancellable, id, rec.Status)
	}

	if rec.Status == TaskStatusQueued && r.queues[rec.Category].RemoveByID(id) {
		r.tokens.Cancel(id)
		now := time.Now().UnixMilli()
		if updated, ok := r.store.Update(id, func(rec *Record) bool { return rec.cancel(now) }); ok {
			r.publish(EventTaskCancelled, updated)
		}
		r.logger.Info("queued task cancelled", "task_id", id)
		return nil
	}

	// processing, or dequeued by the scheduler between the read and the removal
	r.tokens.Cancel(id)
	r.logger.Info("cancellation requested", "task_id", id)
	return nil
}

// Status returns the current record for id.
func (r *TaskRunner) Status(id string) (Record, bool) {
	return r.store.Get(id)
}

// ListPending returns queued and processing records. An empty category
// returns both categories.
func (r *TaskRunner) ListPending(category Category) []Record {
	records := r.store.ListActiveOrQueued()
	if category == "" {
		return records
	}
	out := records[:0]
	for _, rec := range records {
		if rec.Category == category {
			out = append(out, rec)
		}
	}
	return out
}

// ListAll returns every stored record, including finished ones.
func (r *TaskRunner) ListAll() []Record {
	return r.store.ListAll()
}

// ClearAll cancels every queued and processing task and empties both queues.
// Records stay in the store.
func (r *TaskRunner) ClearAll() {
	now := time.Now().UnixMilli()
	cleared := 0
	for _, c := range Categories {
		for _, id := range r.queues[c].Drain() {
			r.tokens.Cancel(id)
			if rec, ok := r.store.Update(id, func(rec *Record) bool { return rec.cancel(now) }); ok {
				r.publish(EventTaskCancelled, rec)
				cleared++
			}
		}
	}

	signalled := 0
	for _, rec := range r.store.ListActiveOrQueued() {
		if r.tokens.Cancel(rec.ID) {
			signalled++
		}
	}

	r.logger.Info("cleared all tasks",
		"queued_cancelled", cleared,
		"processing_signalled", signalled)
}

// ActiveCount returns the size of a category's active set.
func (r *TaskRunner) ActiveCount(category Category) int {
	if a, ok := r.active[category]; ok {
		return a.Len()
	}
	return 0
}

// QueueLength returns the number of tasks waiting in a category's queue.
func (r *TaskRunner) QueueLength(category Category) int {
	if q, ok := r.queues[category]; ok {
		return q.Len()
	}
	return 0
}

func (r *TaskRunner) publish(name string, rec Record) {
	payload, err := json.Marshal(NewEventPayload(rec))
	if err != nil {
		r.logger.Error("failed to serialize task event",
			"event", name,
			"task_id", rec.ID,
			"error", err)
		return
	}
	r.events.enqueue(pendingEvent{name: name, taskID: rec.ID, payload: payload})
}
