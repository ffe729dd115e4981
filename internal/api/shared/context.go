package shared

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContextKey is the type of request context keys set by the api middleware.
type ContextKey string

const (
	// SubjectContextKey holds the "sub" claim of an authenticated request.
	SubjectContextKey ContextKey = "subject"

	// TraceIDKey holds the trace id of a request.
	TraceIDKey ContextKey = "traceID"

	// TraceIDHeader is read from requests and echoed on responses.
	TraceIDHeader = "X-Trace-ID"

	// TraceIDLength is the length of a trace id in hex characters.
	TraceIDLength = 32
)

// SetTraceID stores a fresh trace id in ctx.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// WithTraceID stores id in ctx when it is a well formed trace id, and a
// fresh one otherwise.
func WithTraceID(ctx context.Context, id string) context.Context {
	if !validTraceID(id) {
		return SetTraceID(ctx)
	}
	return context.WithValue(ctx, TraceIDKey, strings.ToLower(id))
}

// GetTraceID returns the trace id stored in ctx, or "".
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// GetSubject returns the authenticated subject stored in ctx.
func GetSubject(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(SubjectContextKey).(string)
	return sub, ok && sub != ""
}

func validTraceID(id string) bool {
	if len(id) != TraceIDLength {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}

// generateTraceID returns a random 32 character hex id. When the random
// source fails it falls back to a time based id so ids are never static.
func generateTraceID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fallbackTraceID()
	}
	return hex.EncodeToString(id[:])
}

func fallbackTraceID() string {
	b := make([]byte, TraceIDLength/2)
	now := time.Now()
	binary.BigEndian.PutUint64(b[:8], uint64(now.UnixNano()))
	binary.BigEndian.PutUint64(b[8:], uint64(now.Nanosecond())^uint64(now.Unix()))
	return hex.EncodeToString(b)
}
