// Package stubengine provides an in-process engine.Handle that fabricates
// inert voice objects instead of producing sound. The CLI runs against it
// until a real synthesis backend is attached, and tests use it to observe
// exactly which constructors a script reached.
package stubengine

import (
	"context"
	"sync"

	"github.com/soundloom/soundloom/internal/engine"
)

// DefaultVoices are the constructor names the stub exposes when none are
// given explicitly.
var DefaultVoices = []string{"Synth", "FM", "Mono", "Pluck", "Sampler"}

// DefaultEffects are the effect constructor names the stub exposes by default.
var DefaultEffects = []string{"Freeverb", "Delay", "Distortion"}

// Call records one constructor invocation.
type Call struct {
	Name string
	Args []any
}

// Engine is a fake engine.Handle. All methods are safe for concurrent use.
type Engine struct {
	mu    sync.Mutex
	names map[string]struct{}
	tempo float64
	calls []Call
}

// New creates a stub engine exposing the given constructor names, or the
// default voice and effect sets when called with none.
func New(names ...string) *Engine {
	if len(names) == 0 {
		names = append(append([]string{}, DefaultVoices...), DefaultEffects...)
	}
	e := &Engine{
		names: make(map[string]struct{}, len(names)),
		tempo: 120,
	}
	for _, n := range names {
		e.names[n] = struct{}{}
	}
	return e
}

// Factory wraps New in an engine.Factory for use with engine.NewLoader.
func Factory(names ...string) engine.Factory {
	return func(ctx context.Context) (engine.Handle, error) {
		return New(names...), nil
	}
}

// Constructor implements engine.Handle.
func (e *Engine) Constructor(name string) (engine.Constructor, bool) {
	e.mu.Lock()
	_, ok := e.names[name]
	e.mu.Unlock()
	if !ok {
		return nil, false
	}
	return func(args ...any) (any, error) {
		e.mu.Lock()
		e.calls = append(e.calls, Call{Name: name, Args: args})
		e.mu.Unlock()
		return e.newVoice(name), nil
	}, true
}

// SetTempo implements engine.Handle.
func (e *Engine) SetTempo(bpm float64) {
	e.mu.Lock()
	e.tempo = bpm
	e.mu.Unlock()
}

// Tempo implements engine.Handle.
func (e *Engine) Tempo() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tempo
}

// Calls returns a copy of every constructor invocation seen so far.
func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

// CallCount reports how many times the named constructor has been invoked.
func (e *Engine) CallCount(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// newVoice fabricates a script-facing voice object. Maps keep the object
// fully dynamic so scripts can assign arbitrary properties, the same way the
// real engine's voices behave.
func (e *Engine) newVoice(kind string) map[string]any {
	v := map[string]any{
		"kind": kind,
		"gain": 0.5,
		"stop": func() {},
	}
	for _, target := range []string{"note", "chord", "freq", "cutoff"} {
		v[target] = map[string]any{
			"seq": func(values, timings []any) {},
		}
	}
	return v
}
