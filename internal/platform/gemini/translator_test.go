package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/bunny/internal/config"
	"github.com/phrazzld/bunny/internal/store"
	"github.com/phrazzld/bunny/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	results []fakeResult
}

type fakeResult struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeGenerator) GenerateContent(
	_ context.Context,
	_ string,
	contents []*genai.Content,
	_ *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompts = append(f.prompts, contents[0].Parts[0].Text)
	}
	r := f.results[min(f.calls, len(f.results)-1)]
	f.calls++
	return r.resp, r.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

type recordingProgress struct {
	values []int
}

func (r *recordingProgress) Report(p int) { r.values = append(r.values, p) }

func newTestTranslator(t *testing.T, gen ContentGenerator, ocrText *string) *Translator {
	t.Helper()
	markers := store.NewMemoryMarkerStore()
	ctx := context.Background()
	require.NoError(t, markers.UpsertMarker(ctx, 7, 3))
	if ocrText != nil {
		require.NoError(t, markers.SaveOCRText(ctx, 7, *ocrText, "default"))
	}

	tr, err := NewTranslator(gen, markers, config.LLMConfig{
		ModelName:  "gemini-2.0-flash",
		MaxRetries: 2,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return tr
}

func translationJob(source *string) task.Job {
	return task.Job{
		TaskID:   "bunny_task_1_1",
		Category: task.CategoryTranslation,
		Subject:  task.Subject{MarkerID: 7, ImageID: 3},
		Parameters: task.Parameters{
			Service:    ServiceID,
			SourceLang: source,
			TargetLang: "en",
		},
	}
}

func TestTranslatorRun(t *testing.T) {
	source := "こんにちは"

	t.Run("returns translated text", func(t *testing.T) {
		gen := &fakeGenerator{results: []fakeResult{{resp: textResponse("  Hello \n")}}}
		tr := newTestTranslator(t, gen, &source)
		progress := &recordingProgress{}
		ja := "ja"

		got, err := tr.Run(context.Background(), translationJob(&ja), progress)
		require.NoError(t, err)
		assert.Equal(t, "Hello", got)
		assert.Equal(t, []int{10, 20, 90}, progress.values)

		require.Len(t, gen.prompts, 1)
		assert.Contains(t, gen.prompts[0], "from ja into en")
		assert.Contains(t, gen.prompts[0], source)
	})

	t.Run("auto detect prompt", func(t *testing.T) {
		gen := &fakeGenerator{results: []fakeResult{{resp: textResponse("Hello")}}}
		tr := newTestTranslator(t, gen, &source)

		_, err := tr.Run(context.Background(), translationJob(nil), &recordingProgress{})
		require.NoError(t, err)
		assert.Contains(t, gen.prompts[0], "Detect the source language")
	})

	t.Run("retries transient errors", func(t *testing.T) {
		gen := &fakeGenerator{results: []fakeResult{
			{err: errors.New("503 unavailable")},
			{err: errors.New("503 unavailable")},
			{resp: textResponse("Hello")},
		}}
		tr := newTestTranslator(t, gen, &source)

		got, err := tr.Run(context.Background(), translationJob(nil), &recordingProgress{})
		require.NoError(t, err)
		assert.Equal(t, "Hello", got)
		assert.Equal(t, 3, gen.calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		gen := &fakeGenerator{results: []fakeResult{{err: errors.New("503 unavailable")}}}
		tr := newTestTranslator(t, gen, &source)

		_, err := tr.Run(context.Background(), translationJob(nil), &recordingProgress{})
		assert.ErrorIs(t, err, ErrTransientFailure)
		assert.Equal(t, 3, gen.calls)
	})

	t.Run("safety block is permanent", func(t *testing.T) {
		blocked := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
		}
		gen := &fakeGenerator{results: []fakeResult{{resp: blocked}}}
		tr := newTestTranslator(t, gen, &source)

		_, err := tr.Run(context.Background(), translationJob(nil), &recordingProgress{})
		assert.ErrorIs(t, err, ErrContentBlocked)
		assert.Equal(t, 1, gen.calls)
	})

	t.Run("empty response is permanent", func(t *testing.T) {
		gen := &fakeGenerator{results: []fakeResult{{resp: &genai.GenerateContentResponse{}}}}
		tr := newTestTranslator(t, gen, &source)

		_, err := tr.Run(context.Background(), translationJob(nil), &recordingProgress{})
		assert.ErrorIs(t, err, ErrInvalidResponse)
		assert.Equal(t, 1, gen.calls)
	})

	t.Run("marker without ocr text", func(t *testing.T) {
		gen := &fakeGenerator{results: []fakeResult{{resp: textResponse("Hello")}}}
		tr := newTestTranslator(t, gen, nil)

		_, err := tr.Run(context.Background(), translationJob(nil), &recordingProgress{})
		assert.ErrorIs(t, err, ErrEmptySourceText)
		assert.Zero(t, gen.calls)
	})

	t.Run("unknown marker", func(t *testing.T) {
		gen := &fakeGenerator{results: []fakeResult{{resp: textResponse("Hello")}}}
		tr := newTestTranslator(t, gen, &source)
		job := translationJob(nil)
		job.Subject.MarkerID = 404

		_, err := tr.Run(context.Background(), job, &recordingProgress{})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rejects ocr jobs", func(t *testing.T) {
		gen := &fakeGenerator{results: []fakeResult{{resp: textResponse("Hello")}}}
		tr := newTestTranslator(t, gen, &source)
		job := translationJob(nil)
		job.Category = task.CategoryOCR

		_, err := tr.Run(context.Background(), job, &recordingProgress{})
		assert.ErrorIs(t, err, ErrWrongCategory)
	})

	t.Run("cancelled before the call", func(t *testing.T) {
		gen := &fakeGenerator{results: []fakeResult{{resp: textResponse("Hello")}}}
		tr := newTestTranslator(t, gen, &source)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := tr.Run(ctx, translationJob(nil), &recordingProgress{})
		assert.ErrorIs(t, err, task.ErrCancelled)
		assert.Zero(t, gen.calls)
	})
}

func TestBackoff(t *testing.T) {
	tr := &Translator{retryDelay: 2 * time.Second, jitter: func() float64 { return 0.5 }}
	assert.Equal(t, time.Second, tr.backoff(0))
	assert.Equal(t, 2*time.Second, tr.backoff(1))
	assert.Equal(t, 4*time.Second, tr.backoff(2))

	tr.retryDelay = 0
	assert.Zero(t, tr.backoff(3))
}

func TestNewTranslator(t *testing.T) {
	markers := store.NewMemoryMarkerStore()
	gen := &fakeGenerator{}

	_, err := NewTranslator(nil, markers, config.LLMConfig{ModelName: "m"}, nil)
	assert.ErrorContains(t, err, "content generator cannot be nil")
	_, err = NewTranslator(gen, nil, config.LLMConfig{ModelName: "m"}, nil)
	assert.ErrorContains(t, err, "marker store cannot be nil")
	_, err = NewTranslator(gen, markers, config.LLMConfig{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	tr, err := NewTranslator(gen, markers, config.LLMConfig{ModelName: "m", MaxRetries: -1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, tr.maxRetries)
}

func TestNewContentGeneratorValidation(t *testing.T) {
	_, err := NewContentGenerator(context.Background(), config.LLMConfig{ModelName: "m"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewContentGenerator(context.Background(), config.LLMConfig{GeminiAPIKey: "k"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
