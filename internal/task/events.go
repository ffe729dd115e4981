package task

import "context"

// Lifecycle event names published by the runner
const (
	EventTaskQueued    = "bunny:task_queued"
	EventTaskStarted   = "bunny:task_started"
	EventTaskProgress  = "bunny:task_progress"
	EventTaskCompleted = "bunny:task_completed"
	EventTaskFailed    = "bunny:task_failed"
	EventTaskCancelled = "bunny:task_cancelled"
)

// EventSink receives serialized lifecycle events.
type EventSink interface {
	Publish(ctx context.Context, name string, payload []byte) error
}

// EventPayload is the JSON body of every lifecycle event.
type EventPayload struct {
	TaskID   string     `json:"task_id"`
	Category Category   `json:"category"`
	Subject  Subject    `json:"subject"`
	Status   TaskStatus `json:"status"`
	Service  string     `json:"service,omitempty"`
	Progress *int       `json:"progress,omitempty"`
	Result   *string    `json:"result,omitempty"`
	Error    *string    `json:"error,omitempty"`
}

// NewEventPayload builds the event body for a record.
func NewEventPayload(rec Record) EventPayload {
	p := EventPayload{
		TaskID:   rec.ID,
		Category: rec.Category,
		Subject:  rec.Subject,
		Status:   rec.Status,
		Service:  rec.Parameters.Service,
		Result:   clonePtr(rec.Result),
		Error:    clonePtr(rec.Error),
	}
	if rec.Status == TaskStatusProcessing || rec.Status == TaskStatusCompleted {
		progress := rec.Progress
		p.Progress = &progress
	}
	return p
}

type discardSink struct{}

func (discardSink) Publish(context.Context, string, []byte) error { return nil }
