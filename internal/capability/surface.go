package capability

import (
	"github.com/soundloom/soundloom/internal/config"
	"github.com/soundloom/soundloom/internal/engine"
)

// NamespaceName is the single namespace binding exposed alongside the
// individual constructors, so scripts can write either Synth() or
// Loom.Synth().
const NamespaceName = "Loom"

// Surface is the per-execution binding table handed to a script: one callable
// per declared constructor plus the namespace handle, and nothing else. It is
// rebuilt from the current engine handle for every execution and holds no
// state of its own.
type Surface struct {
	bindings map[string]any
}

// Surface builds the binding table against the given live handle. Constructor
// names that fail to resolve are skipped; Validate catches that condition at
// startup, so a miss here means the engine changed underneath us and the
// safest surface is a smaller one.
func (r *Registry) Surface(h engine.Handle) *Surface {
	bindings := make(map[string]any, len(r.voices)+len(r.effects)+1)
	namespace := make(map[string]any, len(r.voices)+len(r.effects))

	bind := func(name string, defaults map[string]any) {
		ctor, ok := h.Constructor(name)
		if !ok {
			return
		}
		wrapped := withDefaults(ctor, defaults)
		bindings[name] = wrapped
		namespace[name] = wrapped
	}

	for name, def := range r.voices {
		bind(name, config.GoDefaults(def.Defaults))
	}
	for name, def := range r.effects {
		bind(name, config.GoDefaults(def.Defaults))
	}

	bindings[NamespaceName] = namespace
	return &Surface{bindings: bindings}
}

// withDefaults wraps a constructor so that a bare call picks up the manifest
// defaults. Explicit arguments always win: defaults are only injected when
// the script passes none.
func withDefaults(ctor engine.Constructor, defaults map[string]any) engine.Constructor {
	if len(defaults) == 0 {
		return ctor
	}
	return func(args ...any) (any, error) {
		if len(args) == 0 {
			return ctor(defaults)
		}
		return ctor(args...)
	}
}

// Bindings returns the table to install as a script's globals.
func (s *Surface) Bindings() map[string]any {
	return s.bindings
}

// Len reports the number of bindings, namespace included.
func (s *Surface) Len() int {
	return len(s.bindings)
}
