package gemini

import (
	"context"
	"fmt"

	"github.com/phrazzld/bunny/internal/config"
	"google.golang.org/genai"
)

// ServiceID is the translation service id the Translator is registered under.
const ServiceID = "gemini"

// ContentGenerator is the part of the genai client the Translator calls.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// NewContentGenerator creates a Gemini API client from the LLM settings.
func NewContentGenerator(ctx context.Context, cfg config.LLMConfig) (ContentGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}
	return client.Models, nil
}
