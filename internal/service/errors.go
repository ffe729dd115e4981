// Package service provides the application-level bunny service: it turns
// OCR and translation requests for annotation markers into scheduled tasks
// and records finished results on the markers.
package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/bunny/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in BunnyServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrMarkerNotFound indicates the marker named by a request does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrMarkerNotFound = errors.New("marker not found")

	// ErrUnknownService indicates the OCR model or translation service is not
	// in the catalog.
	// API layer should map this to HTTP 400 Bad Request.
	ErrUnknownService = errors.New("unknown bunny service")

	// ErrNoResult indicates the marker has no completed result of the requested kind yet.
	// API layer should map this to HTTP 404 Not Found.
	ErrNoResult = errors.New("no result available")
)

// BunnyServiceError wraps errors from the bunny service with context.
type BunnyServiceError struct {
	// Operation is the operation that failed (e.g., "request_ocr", "cancel_task")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for BunnyServiceError.
func (e *BunnyServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bunny service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("bunny service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *BunnyServiceError) Unwrap() error {
	return e.Err
}

// NewBunnyServiceError creates a new BunnyServiceError.
// It returns known sentinel errors directly without wrapping.
func NewBunnyServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrMarkerNotFound), errors.Is(err, store.ErrMarkerNotFound):
		return ErrMarkerNotFound
	case errors.Is(err, ErrUnknownService):
		return err
	case errors.Is(err, ErrNoResult):
		return ErrNoResult
	}

	return &BunnyServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
