package engine

import (
	"context"
	"sync"

	"github.com/soundloom/soundloom/internal/ctxlog"
)

// Factory produces a live Handle. It may block (engines attach
// asynchronously) and is called at most once per attempt.
type Factory func(ctx context.Context) (Handle, error)

// Loader brings the engine up idempotently. Concurrent Load calls coalesce
// into a single in-flight attempt instead of racing to double-initialize;
// once an attempt succeeds the handle is cached for the life of the loader.
// A failed attempt clears the slot so a later call can retry.
type Loader struct {
	factory Factory

	mu      sync.Mutex
	handle  Handle
	pending *attempt
}

// attempt is one in-flight initialization, joined by every caller that
// arrives while it runs.
type attempt struct {
	done   chan struct{}
	handle Handle
	err    error
}

// NewLoader creates a Loader around the given factory.
func NewLoader(factory Factory) *Loader {
	if factory == nil {
		panic("engine: loader requires a factory")
	}
	return &Loader{factory: factory}
}

// Load returns the live handle, initializing it on first use. Callers that
// arrive during an in-flight attempt wait for that attempt's result rather
// than starting a second one.
func (l *Loader) Load(ctx context.Context) (Handle, error) {
	l.mu.Lock()
	if l.handle != nil {
		h := l.handle
		l.mu.Unlock()
		return h, nil
	}
	if l.pending != nil {
		a := l.pending
		l.mu.Unlock()
		select {
		case <-a.done:
			return a.handle, a.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	a := &attempt{done: make(chan struct{})}
	l.pending = a
	l.mu.Unlock()

	ctxlog.FromContext(ctx).Debug("Initializing engine handle.")
	a.handle, a.err = l.factory(ctx)

	l.mu.Lock()
	if a.err == nil {
		l.handle = a.handle
	}
	l.pending = nil
	l.mu.Unlock()
	close(a.done)

	return a.handle, a.err
}

// Handle returns the loaded handle, or nil if no attempt has succeeded yet.
func (l *Loader) Handle() Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handle
}
