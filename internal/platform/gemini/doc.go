// Package gemini provides a translation task body backed by Google's Gemini
// API.
//
// The Translator reads a marker's OCR text from the marker store, asks the
// configured Gemini model for a translation and returns the translated text
// as the task result. Transient API failures are retried with exponential
// backoff and jitter; every wait observes task cancellation.
//
// The genai client is hidden behind the ContentGenerator interface so the
// body can be exercised without network access.
package gemini
