package task

import (
	"context"
	"sync"
	"time"
)

// MaxPollSlice caps a single cooperative wait.
const MaxPollSlice = time.Second

// Sleep pauses for at most min(d, MaxPollSlice) and reports whether ctx was
// cancelled before or during the pause. Bodies call it at each yield point.
func Sleep(ctx context.Context, d time.Duration) bool {
	if d > MaxPollSlice {
		d = MaxPollSlice
	}
	if d <= 0 {
		return ctx.Err() != nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return true
	case <-timer.C:
		return ctx.Err() != nil
	}
}

// Token is the cooperative cancellation flag of one task.
type Token struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newToken() *Token {
	ctx, cancel := context.WithCancel(context.Background())
	return &Token{ctx: ctx, cancel: cancel}
}

// Cancel sets the flag. Calling it more than once is harmless.
func (t *Token) Cancel() { t.cancel() }

// Cancelled reports whether the flag is set.
func (t *Token) Cancelled() bool { return t.ctx.Err() != nil }

// Done is closed once the token is cancelled.
func (t *Token) Done() <-chan struct{} { return t.ctx.Done() }

// Context returns a context that is cancelled together with the token.
func (t *Token) Context() context.Context { return t.ctx }

// Wait is Sleep bound to this token.
func (t *Token) Wait(d time.Duration) bool { return Sleep(t.ctx, d) }

// CancellationRegistry owns one token per task id. Tokens outlive queue and
// active set membership and are only dropped by Reset or Remove.
type CancellationRegistry struct {
	mu     sync.Mutex
	tokens map[string]*Token
}

// NewCancellationRegistry creates an empty registry
func NewCancellationRegistry() *CancellationRegistry {
	return &CancellationRegistry{tokens: make(map[string]*Token)}
}

// Create registers a fresh token for id and returns it.
func (r *CancellationRegistry) Create(id string) *Token {
	t := newToken()
	r.mu.Lock()
	r.tokens[id] = t
	r.mu.Unlock()
	return t
}

// Get returns the token for id.
func (r *CancellationRegistry) Get(id string) (*Token, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	return t, ok
}

// Cancel sets the flag for id. It reports false when no token exists.
func (r *CancellationRegistry) Cancel(id string) bool {
	t, ok := r.Get(id)
	if !ok {
		return false
	}
	t.Cancel()
	return true
}

// IsCancelled reports whether the flag for id is set. Unknown ids are not cancelled.
func (r *CancellationRegistry) IsCancelled(id string) bool {
	t, ok := r.Get(id)
	return ok && t.Cancelled()
}

// Remove drops tokens for records that no longer exist.
func (r *CancellationRegistry) Remove(ids ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if t, ok := r.tokens[id]; ok {
			t.Cancel()
			delete(r.tokens, id)
		}
	}
}

// Reset cancels every token and empties the registry.
func (r *CancellationRegistry) Reset() {
	r.mu.Lock()
	tokens := r.tokens
	r.tokens = make(map[string]*Token)
	r.mu.Unlock()

	for _, t := range tokens {
		t.Cancel()
	}
}

// Len returns the number of registered tokens
func (r *CancellationRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}
