package task

import "errors"

// Errors returned by the task runner and its components
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrNotCancellable  = errors.New("task is not cancellable")
	ErrRunnerStopped   = errors.New("task runner is stopped")
	ErrStoreFull       = errors.New("task store is full")
	ErrInvalidCategory = errors.New("invalid task category")

	// ErrCancelled is returned by bodies that stop because their task was cancelled.
	ErrCancelled = errors.New("task cancelled")
)
