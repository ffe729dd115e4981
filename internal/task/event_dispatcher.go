package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultEventBuffer is the number of lifecycle events held for the sink
	// when the config leaves it unset.
	DefaultEventBuffer = 1024

	// eventDrainTimeout bounds how long Stop waits for buffered events.
	eventDrainTimeout = 5 * time.Second
)

type pendingEvent struct {
	name    string
	taskID  string
	payload []byte
}

// eventDispatcher delivers lifecycle events to the sink from a single
// goroutine, in the order they were enqueued. Enqueue never blocks: when the
// buffer is full the event is dropped and a warning logged.
type eventDispatcher struct {
	sink   EventSink
	logger *slog.Logger
	queue  chan pendingEvent
	done   chan struct{}

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

func newEventDispatcher(sink EventSink, size int, logger *slog.Logger) *eventDispatcher {
	if size <= 0 {
		size = DefaultEventBuffer
	}
	d := &eventDispatcher{
		sink:   sink,
		logger: logger,
		queue:  make(chan pendingEvent, size),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *eventDispatcher) enqueue(ev pendingEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Debug("dropping event after shutdown",
			"event", ev.name,
			"task_id", ev.taskID)
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.logger.Warn("event buffer full, dropping event",
			"event", ev.name,
			"task_id", ev.taskID,
			"buffer", cap(d.queue),
			"dropped_total", d.dropped.Add(1))
	}
}

func (d *eventDispatcher) run() {
	defer close(d.done)
	for ev := range d.queue {
		d.deliver(ev)
	}
}

func (d *eventDispatcher) deliver(ev pendingEvent) {
	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("event sink panicked",
				"event", ev.name,
				"task_id", ev.taskID,
				"panic", fmt.Sprint(p))
		}
	}()
	if err := d.sink.Publish(context.Background(), ev.name, ev.payload); err != nil {
		d.logger.Warn("failed to publish task event",
			"event", ev.name,
			"task_id", ev.taskID,
			"error", err)
	}
}

// close stops accepting events and waits up to eventDrainTimeout for the
// buffered ones to reach the sink.
func (d *eventDispatcher) close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
	case <-time.After(eventDrainTimeout):
		d.logger.Warn("gave up waiting for buffered events",
			"pending", len(d.queue))
	}
}

// Dropped returns the number of events discarded because the buffer was full.
func (d *eventDispatcher) Dropped() uint64 {
	return d.dropped.Load()
}
