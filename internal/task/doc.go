// Package task implements the asynchronous OCR and translation job scheduler.
//
// A TaskRunner owns one FIFO queue and one bounded active set per category, a
// cancellation registry and an in-memory task store. Submit records a task and
// returns immediately; a single scheduler goroutine moves queued tasks into the
// active set while capacity allows and hands them to the Executor, which runs
// the task Body on a worker pool and writes the terminal outcome back to the
// store. Every lifecycle transition is published to an EventSink.
//
// Cancellation is cooperative: a queued task is cancelled on the spot, while a
// processing task only has its token cancelled and stops at the next check its
// Body makes.
package task
