package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// notifyFunc publishes a lifecycle event for a record.
type notifyFunc func(name string, rec Record)

// Executor runs task bodies on a worker pool and writes their outcome back to
// the store.
type Executor struct {
	pool   WorkerPool
	store  *TaskStore
	bodies *BodyRegistry
	notify notifyFunc
	logger *slog.Logger
}

// NewExecutor creates an executor. notify may be nil.
func NewExecutor(pool WorkerPool, store *TaskStore, bodies *BodyRegistry, notify notifyFunc, logger *slog.Logger) *Executor {
	if notify == nil {
		notify = func(string, Record) {}
	}
	return &Executor{
		pool:   pool,
		store:  store,
		bodies: bodies,
		notify: notify,
		logger: logger,
	}
}

// Dispatch hands the task to the pool without waiting for it.
func (e *Executor) Dispatch(rec Record, token *Token) error {
	return e.pool.Submit(rec.Category, func() {
		e.execute(rec, token)
	})
}

func (e *Executor) execute(rec Record, token *Token) {
	logger := e.logger.With(
		"task_id", rec.ID,
		"category", rec.Category,
		"service", rec.Parameters.Service,
	)
	logger.Info("processing task")

	job := Job{
		TaskID:     rec.ID,
		Category:   rec.Category,
		Subject:    rec.Subject,
		Parameters: rec.Parameters,
	}
	sink := &progressSink{executor: e, taskID: rec.ID}

	result, err := e.runBody(token.Context(), job, sink)
	now := time.Now().UnixMilli()

	switch {
	case errors.Is(err, ErrCancelled), err != nil && token.Cancelled():
		logger.Info("task cancelled")
		e.finish(rec.ID, EventTaskCancelled, func(r *Record) bool { return r.cancel(now) })
	case err != nil:
		logger.Error("task execution failed", "error", err)
		msg := err.Error()
		e.finish(rec.ID, EventTaskFailed, func(r *Record) bool { return r.fail(msg, now) })
	default:
		logger.Info("task completed successfully")
		e.finish(rec.ID, EventTaskCompleted, func(r *Record) bool { return r.complete(result, now) })
	}
}

// runBody converts a panic inside the body into an error for this task only.
func (e *Executor) runBody(ctx context.Context, job Job, sink ProgressSink) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	body := e.bodies.Resolve(job.Category, job.Parameters.Service)
	return body.Run(ctx, job, sink)
}

func (e *Executor) finish(id, event string, transition func(r *Record) bool) {
	rec, ok := e.store.Update(id, transition)
	if !ok {
		e.logger.Warn("task already terminal, outcome dropped",
			"task_id", id,
			"status", rec.Status,
			"event", event)
		return
	}
	e.notify(event, rec)
}

type progressSink struct {
	executor *Executor
	taskID   string
}

func (s *progressSink) Report(progress int) {
	rec, ok := s.executor.store.Update(s.taskID, func(r *Record) bool { return r.advance(progress) })
	if ok {
		s.executor.notify(EventTaskProgress, rec)
	}
}
