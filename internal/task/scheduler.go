package task

import (
	"fmt"
	"runtime/debug"
	"time"
)

// loop is the single scheduler goroutine.
func (r *TaskRunner) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("scheduler loop stopping")
			return
		case <-ticker.C:
			r.safeTick()
		}
	}
}

// safeTick keeps the loop alive if a tick panics.
func (r *TaskRunner) safeTick() {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("scheduler tick panicked",
				"panic", fmt.Sprint(p),
				"stack", string(debug.Stack()))
		}
	}()
	r.tick()
}

func (r *TaskRunner) tick() {
	for _, c := range Categories {
		r.dispatch(c)
		r.reap(c)
	}
	r.prune()
}

// dispatch moves queued tasks into the active set until the category limit
// is reached or the queue is empty.
func (r *TaskRunner) dispatch(category Category) {
	limit := r.config.MaxConcurrent[category]
	queue := r.queues[category]
	active := r.active[category]

	for active.Len() < limit {
		id, ok := queue.TryDequeue()
		if !ok {
			return
		}

		token, ok := r.tokens.Get(id)
		if !ok {
			token = r.tokens.Create(id)
		}

		now := time.Now().UnixMilli()

		// cancelled between Submit storing the record and enqueueing it
		if token.Cancelled() {
			if rec, ok := r.store.Update(id, func(rec *Record) bool { return rec.cancel(now) }); ok {
				r.publish(EventTaskCancelled, rec)
			}
			continue
		}

		rec, started := r.store.Update(id, func(rec *Record) bool { return rec.start(now) })
		if !started {
			r.logger.Debug("skipping task that is no longer queued",
				"task_id", id,
				"status", rec.Status)
			continue
		}

		active.Insert(id, token)
		r.publish(EventTaskStarted, rec)

		if err := r.executor.Dispatch(rec, token); err != nil {
			r.logger.Error("failed to dispatch task",
				"task_id", id,
				"category", category,
				"error", err)
			msg := fmt.Sprintf("dispatch failed: %v", err)
			failedAt := time.Now().UnixMilli()
			if failed, ok := r.store.Update(id, func(rec *Record) bool { return rec.fail(msg, failedAt) }); ok {
				r.publish(EventTaskFailed, failed)
			}
			active.Remove(id)
		}
	}
}

// reap drops active entries that are finished, fully progressed or cancelled.
func (r *TaskRunner) reap(category Category) {
	active := r.active[category]
	for _, entry := range active.snapshot() {
		rec, ok := r.store.Get(entry.id)
		if !ok || rec.Status.IsTerminal() || rec.Progress >= 100 || entry.token.Cancelled() {
			active.Remove(entry.id)
		}
	}
}

// prune applies the retention TTL when one is configured.
func (r *TaskRunner) prune() {
	if r.config.RetentionTTL <= 0 {
		return
	}
	cutoff := time.Now().Add(-r.config.RetentionTTL).UnixMilli()
	removed := r.store.Prune(cutoff)
	if len(removed) == 0 {
		return
	}
	r.tokens.Remove(removed...)
	r.logger.Debug("pruned expired task records", "count", len(removed))
}
