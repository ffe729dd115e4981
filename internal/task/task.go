package task

import (
	"fmt"
	"strings"
)

// Category identifies which queue, worker pool and concurrency limit a task uses.
type Category string

// Supported task categories
const (
	CategoryOCR         Category = "ocr"
	CategoryTranslation Category = "translation"
)

// Categories lists every category in the order the scheduler visits them.
var Categories = []Category{CategoryOCR, CategoryTranslation}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryOCR || c == CategoryTranslation
}

// ParseCategory converts a case-insensitive string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusQueued     TaskStatus = "queued"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// IsTerminal reports whether the status is absorbing.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed || s == TaskStatusCancelled
}

// Subject identifies the domain object a task works on. The scheduler passes it
// through untouched.
type Subject struct {
	MarkerID uint32 `json:"marker_id"`
	ImageID  uint32 `json:"image_id"`
}

// Parameters carries category specific job settings. Service is the OCR model
// for OCR tasks and the translation service for translation tasks.
type Parameters struct {
	Service    string  `json:"service"`
	SourceLang *string `json:"source_lang,omitempty"`
	TargetLang string  `json:"target_lang,omitempty"`
}

// Record is the stored state of one task.
// Timestamps are unix milliseconds.
type Record struct {
	ID          string     `json:"task_id"`
	Category    Category   `json:"category"`
	Status      TaskStatus `json:"status"`
	Subject     Subject    `json:"subject"`
	Parameters  Parameters `json:"parameters"`
	Result      *string    `json:"result,omitempty"`
	Error       *string    `json:"error,omitempty"`
	Progress    int        `json:"progress"`
	CreatedAt   int64      `json:"created_at"`
	StartedAt   *int64     `json:"started_at,omitempty"`
	CompletedAt *int64     `json:"completed_at,omitempty"`

	// seq orders records submitted within the same millisecond
	seq uint64
}

func (r Record) clone() Record {
	out := r
	out.Parameters.SourceLang = clonePtr(r.Parameters.SourceLang)
	out.Result = clonePtr(r.Result)
	out.Error = clonePtr(r.Error)
	out.StartedAt = clonePtr(r.StartedAt)
	out.CompletedAt = clonePtr(r.CompletedAt)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// start moves a queued record to processing.
func (r *Record) start(now int64) bool {
	if r.Status != TaskStatusQueued {
		return false
	}
	r.Status = TaskStatusProcessing
	r.StartedAt = &now
	r.Progress = 0
	return true
}

// advance raises progress while processing. Progress never decreases.
func (r *Record) advance(progress int) bool {
	if r.Status != TaskStatusProcessing {
		return false
	}
	if progress > 100 {
		progress = 100
	}
	if progress <= r.Progress {
		return false
	}
	r.Progress = progress
	return true
}

func (r *Record) complete(result string, now int64) bool {
	if r.Status != TaskStatusProcessing {
		return false
	}
	r.Status = TaskStatusCompleted
	r.Result = &result
	r.Error = nil
	r.Progress = 100
	r.CompletedAt = &now
	return true
}

func (r *Record) fail(msg string, now int64) bool {
	if r.Status != TaskStatusProcessing {
		return false
	}
	r.Status = TaskStatusFailed
	r.Error = &msg
	r.Result = nil
	r.Progress = 100
	r.CompletedAt = &now
	return true
}

// cancel is valid from queued or processing.
func (r *Record) cancel(now int64) bool {
	if r.Status.IsTerminal() {
		return false
	}
	r.Status = TaskStatusCancelled
	r.CompletedAt = &now
	return true
}
