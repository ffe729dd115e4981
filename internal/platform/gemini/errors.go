package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrInvalidConfig is returned when the LLM settings cannot build a client.
	ErrInvalidConfig = errors.New("invalid gemini configuration")

	// ErrEmptySourceText is returned when the marker has no OCR text to translate.
	ErrEmptySourceText = errors.New("marker has no text to translate")

	// ErrInvalidResponse is returned when the API answers without usable text.
	ErrInvalidResponse = errors.New("invalid response from gemini")

	// ErrContentBlocked is returned when the safety filters reject the request.
	ErrContentBlocked = errors.New("content blocked by gemini safety filters")

	// ErrTransientFailure is returned once all retries are used up.
	ErrTransientFailure = errors.New("gemini request failed after retries")

	// ErrWrongCategory is returned when the body is handed a non-translation job.
	ErrWrongCategory = errors.New("gemini body only handles translation tasks")
)
