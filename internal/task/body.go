package task

import (
	"context"
	"sync"
	"time"
)

// Job is the read-only view of a task handed to a Body.
type Job struct {
	TaskID     string
	Category   Category
	Subject    Subject
	Parameters Parameters
}

// ProgressSink receives progress percentages from a running body.
type ProgressSink interface {
	Report(progress int)
}

// Body performs the actual work of a task. ctx is cancelled when the task is
// cancelled; bodies should check it at every natural yield point and return
// ErrCancelled (or the context error) when they stop early.
type Body interface {
	Run(ctx context.Context, job Job, progress ProgressSink) (string, error)
}

// BodyFunc adapts a function to the Body interface.
type BodyFunc func(ctx context.Context, job Job, progress ProgressSink) (string, error)

// Run calls f.
func (f BodyFunc) Run(ctx context.Context, job Job, progress ProgressSink) (string, error) {
	return f(ctx, job, progress)
}

// SimulatedBody stands in for a real provider. It reports progress in Steps
// equal increments, waiting StepDelay before each one.
type SimulatedBody struct {
	Steps     int
	StepDelay time.Duration
}

// DefaultSimulatedBody returns the five step, one second per step body.
func DefaultSimulatedBody() SimulatedBody {
	return SimulatedBody{Steps: 5, StepDelay: time.Second}
}

// Run implements Body. The simulated result is empty text.
func (b SimulatedBody) Run(ctx context.Context, _ Job, progress ProgressSink) (string, error) {
	steps := b.Steps
	if steps <= 0 {
		steps = 1
	}
	for step := 1; step <= steps; step++ {
		if Pause(ctx, b.StepDelay) {
			return "", ErrCancelled
		}
		progress.Report(step * 100 / steps)
	}
	return "", nil
}

// Pause waits d in MaxPollSlice chunks, checking for cancellation before and
// after each one.
func Pause(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return true
	}
	for d > 0 {
		slice := min(d, MaxPollSlice)
		if Sleep(ctx, slice) {
			return true
		}
		d -= slice
	}
	return ctx.Err() != nil
}

type bodyKey struct {
	category Category
	service  string
}

// BodyRegistry resolves the body for a task from its category and service id.
type BodyRegistry struct {
	mu       sync.RWMutex
	fallback Body
	defaults map[Category]Body
	services map[bodyKey]Body
}

// NewBodyRegistry creates a registry that uses fallback when nothing more
// specific is registered.
func NewBodyRegistry(fallback Body) *BodyRegistry {
	if fallback == nil {
		fallback = DefaultSimulatedBody()
	}
	return &BodyRegistry{
		fallback: fallback,
		defaults: make(map[Category]Body),
		services: make(map[bodyKey]Body),
	}
}

// SetDefault sets the body used for a category when the service has no
// dedicated body.
func (r *BodyRegistry) SetDefault(category Category, body Body) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaults[category] = body
}

// Register binds a body to one service of a category.
func (r *BodyRegistry) Register(category Category, service string, body Body) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[bodyKey{category, service}] = body
}

// Resolve returns the body for category and service.
func (r *BodyRegistry) Resolve(category Category, service string) Body {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.services[bodyKey{category, service}]; ok {
		return b
	}
	if b, ok := r.defaults[category]; ok {
		return b
	}
	return r.fallback
}
