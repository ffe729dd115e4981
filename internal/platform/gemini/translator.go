package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/phrazzld/bunny/internal/config"
	"github.com/phrazzld/bunny/internal/store"
	"github.com/phrazzld/bunny/internal/task"
	"google.golang.org/genai"
)

// Translator is a task.Body that translates a marker's OCR text with Gemini.
type Translator struct {
	gen        ContentGenerator
	markers    store.MarkerStore
	model      string
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
	jitter     func() float64
}

var _ task.Body = (*Translator)(nil)

// NewTranslator creates a Translator. Negative retry settings fall back to
// three retries; a zero delay retries immediately.
func NewTranslator(
	gen ContentGenerator,
	markers store.MarkerStore,
	cfg config.LLMConfig,
	logger *slog.Logger,
) (*Translator, error) {
	if gen == nil {
		return nil, errors.New("content generator cannot be nil")
	}
	if markers == nil {
		return nil, errors.New("marker store cannot be nil")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	delay := time.Duration(max(cfg.RetryDelaySeconds, 0)) * time.Second

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Translator{
		gen:        gen,
		markers:    markers,
		model:      cfg.ModelName,
		maxRetries: maxRetries,
		retryDelay: delay,
		logger:     logger.With(slog.String("component", "gemini_translator")),
		jitter:     func() float64 { return 0.5 + rng.Float64()*0.5 },
	}, nil
}

// Run implements task.Body.
func (t *Translator) Run(ctx context.Context, job task.Job, progress task.ProgressSink) (string, error) {
	if job.Category != task.CategoryTranslation {
		return "", fmt.Errorf("%w: got %s", ErrWrongCategory, job.Category)
	}

	marker, err := t.markers.GetMarker(ctx, job.Subject.MarkerID)
	if err != nil {
		return "", fmt.Errorf("failed to load marker %d: %w", job.Subject.MarkerID, err)
	}
	if marker.OriginalText == nil || strings.TrimSpace(*marker.OriginalText) == "" {
		return "", ErrEmptySourceText
	}
	progress.Report(10)

	prompt, err := buildPrompt(*marker.OriginalText, job.Parameters.SourceLang, job.Parameters.TargetLang)
	if err != nil {
		return "", err
	}
	progress.Report(20)

	text, err := t.generateWithRetry(ctx, job.TaskID, prompt)
	if err != nil {
		return "", err
	}
	progress.Report(90)
	return text, nil
}

func (t *Translator) generateWithRetry(ctx context.Context, taskID, prompt string) (string, error) {
	log := t.logger.With(slog.String("task_id", taskID))
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	}

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return "", task.ErrCancelled
		}

		log.DebugContext(ctx, "calling gemini",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", t.maxRetries+1))

		resp, err := t.gen.GenerateContent(ctx, t.model, genai.Text(prompt), cfg)
		if err == nil {
			text, perr := responseText(resp)
			if perr != nil {
				log.WarnContext(ctx, "permanent gemini error, not retrying", slog.Any("error", perr))
				return "", perr
			}
			return text, nil
		}
		if ctx.Err() != nil {
			return "", task.ErrCancelled
		}

		log.WarnContext(ctx, "gemini call failed",
			slog.Int("attempt", attempt+1),
			slog.Any("error", err))

		if attempt >= t.maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				ErrTransientFailure, t.maxRetries, err)
		}

		delay := t.backoff(attempt)
		if task.Pause(ctx, delay) {
			return "", task.ErrCancelled
		}
	}
}

// backoff is retryDelay * 2^attempt scaled by a jitter factor in [0.5, 1).
func (t *Translator) backoff(attempt int) time.Duration {
	if t.retryDelay <= 0 {
		return 0
	}
	scaled := float64(t.retryDelay) * math.Pow(2, float64(attempt)) * t.jitter()
	return time.Duration(scaled)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ErrInvalidResponse)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content", ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: no text in response", ErrInvalidResponse)
	}
	return text, nil
}
