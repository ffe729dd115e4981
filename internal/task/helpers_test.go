package task

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type recordedEvent struct {
	Name    string
	Payload EventPayload
}

// recordingSink captures every published event in order.
type recordingSink struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (s *recordingSink) Publish(_ context.Context, name string, payload []byte) error {
	var p EventPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}
	s.mu.Lock()
	s.events = append(s.events, recordedEvent{Name: name, Payload: p})
	s.mu.Unlock()
	return nil
}

func (s *recordingSink) forTask(id string) []recordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedEvent
	for _, e := range s.events {
		if e.Payload.TaskID == id {
			out = append(out, e)
		}
	}
	return out
}

func (s *recordingSink) namesFor(id string) []string {
	var names []string
	for _, e := range s.forTask(id) {
		names = append(names, e.Name)
	}
	return names
}

func (s *recordingSink) named(name string) []recordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedEvent
	for _, e := range s.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// gatedBody blocks every task until release is closed or the task is cancelled.
type gatedBody struct {
	release chan struct{}
	started chan string
	once    sync.Once
}

func newGatedBody() *gatedBody {
	return &gatedBody{
		release: make(chan struct{}),
		started: make(chan string, 100),
	}
}

func (b *gatedBody) Run(ctx context.Context, job Job, progress ProgressSink) (string, error) {
	b.started <- job.TaskID
	select {
	case <-b.release:
		progress.Report(50)
		return "done:" + job.TaskID, nil
	case <-ctx.Done():
		return "", ErrCancelled
	}
}

func (b *gatedBody) open() {
	b.once.Do(func() { close(b.release) })
}

func testRunnerConfig(ocr, translation int) TaskRunnerConfig {
	cfg := DefaultTaskRunnerConfig(HostNative)
	cfg.MaxConcurrent = map[Category]int{
		CategoryOCR:         ocr,
		CategoryTranslation: translation,
	}
	cfg.TickInterval = 5 * time.Millisecond
	return cfg
}

func newTestRunner(t *testing.T, cfg TaskRunnerConfig, body Body, sink EventSink) *TaskRunner {
	t.Helper()
	runner, err := NewTaskRunner(cfg, NewBodyRegistry(body), sink, setupTestLogger())
	require.NoError(t, err)
	t.Cleanup(runner.Stop)
	return runner
}

func countStatus(records []Record, status TaskStatus) int {
	n := 0
	for _, rec := range records {
		if rec.Status == status {
			n++
		}
	}
	return n
}

func submitN(t *testing.T, r *TaskRunner, category Category, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, err := r.Submit(category, Subject{MarkerID: uint32(i + 1), ImageID: 7}, Parameters{Service: "default"})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

// blockingSink holds every Publish call until open is called.
type blockingSink struct {
	recordingSink
	release chan struct{}
	once    sync.Once
}

func newBlockingSink() *blockingSink {
	return &blockingSink{release: make(chan struct{})}
}

func (s *blockingSink) Publish(ctx context.Context, name string, payload []byte) error {
	<-s.release
	return s.recordingSink.Publish(ctx, name, payload)
}

func (s *blockingSink) open() {
	s.once.Do(func() { close(s.release) })
}
