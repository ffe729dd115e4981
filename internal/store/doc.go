// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. Bunny tasks only need a narrow view of the
// annotation data: which image a marker belongs to, and where the latest
// OCR text and machine translation of a marker are kept.
package store
