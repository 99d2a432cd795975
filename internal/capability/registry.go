package capability

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/soundloom/soundloom/internal/config"
	"github.com/soundloom/soundloom/internal/engine"
)

// Registry holds the manifest-declared constructor definitions for a single
// application instance. It is populated once at startup and read-only after.
type Registry struct {
	voices  map[string]*config.VoiceDefinition
	effects map[string]*config.EffectDefinition
	limits  config.Limits
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		voices:  make(map[string]*config.VoiceDefinition),
		effects: make(map[string]*config.EffectDefinition),
		limits:  config.Limits{MaxGain: config.DefaultMaxGain},
	}
}

// PopulateFromModel copies the loaded manifest definitions into the registry.
func (r *Registry) PopulateFromModel(model *config.Model) {
	for name, def := range model.Voices {
		r.RegisterVoice(name, def)
	}
	for name, def := range model.Effects {
		r.RegisterEffect(name, def)
	}
	r.limits = model.Limits
}

// RegisterVoice registers one instrument constructor definition. Registering
// the same name twice is a programmer error.
func (r *Registry) RegisterVoice(name string, def *config.VoiceDefinition) {
	if _, exists := r.voices[name]; exists {
		panic(fmt.Sprintf("voice constructor %q already registered", name))
	}
	slog.Debug("Registering voice constructor.", "name", name)
	r.voices[name] = def
}

// RegisterEffect registers one effect constructor definition.
func (r *Registry) RegisterEffect(name string, def *config.EffectDefinition) {
	if _, exists := r.effects[name]; exists {
		panic(fmt.Sprintf("effect constructor %q already registered", name))
	}
	slog.Debug("Registering effect constructor.", "name", name)
	r.effects[name] = def
}

// VoiceTypes returns the registered instrument constructor names, sorted.
// The tracking scans use this set to recognize declarations in source text.
func (r *Registry) VoiceTypes() []string {
	names := make([]string, 0, len(r.voices))
	for name := range r.voices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EffectTypes returns the registered effect constructor names, sorted.
func (r *Registry) EffectTypes() []string {
	names := make([]string, 0, len(r.effects))
	for name := range r.effects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Limits returns the numeric safety limits declared by the manifests.
func (r *Registry) Limits() config.Limits {
	return r.limits
}

// Validate performs a strict parity check between the manifests and the live
// engine: every declared constructor must resolve on the handle. A manifest
// naming a constructor the engine does not provide is a deployment error and
// must fail before any script runs.
func (r *Registry) Validate(h engine.Handle) error {
	var missing []string
	for name := range r.voices {
		if _, ok := h.Constructor(name); !ok {
			missing = append(missing, fmt.Sprintf("voice %q has no engine constructor", name))
		}
	}
	for name := range r.effects {
		if _, ok := h.Constructor(name); !ok {
			missing = append(missing, fmt.Sprintf("effect %q has no engine constructor", name))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("capability registry validation failed:\n- %s", strings.Join(missing, "\n- "))
	}
	return nil
}
