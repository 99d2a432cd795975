package config

import (
	"github.com/zclconf/go-cty/cty"
)

// DefaultMaxGain is the gain ceiling applied when no limits block overrides it.
const DefaultMaxGain = 10

// Model is the unified, format-agnostic representation of the capability
// manifests: which constructors scripts may reach and under what limits.
type Model struct {
	Voices  map[string]*VoiceDefinition
	Effects map[string]*EffectDefinition
	Limits  Limits
}

// NewModel returns an empty model with the documented default limits.
func NewModel() *Model {
	return &Model{
		Voices:  make(map[string]*VoiceDefinition),
		Effects: make(map[string]*EffectDefinition),
		Limits:  Limits{MaxGain: DefaultMaxGain},
	}
}

// VoiceDefinition is the format-agnostic representation of a `voice` block:
// one instrument constructor exposed to scripts.
type VoiceDefinition struct {
	Type       string
	Family     string
	Polyphonic bool
	Defaults   map[string]cty.Value
}

// EffectDefinition is the format-agnostic representation of an `effect` block.
type EffectDefinition struct {
	Type     string
	Defaults map[string]cty.Value
}

// Limits holds the numeric safety limits declared by a `limits` block.
type Limits struct {
	// MaxGain is the threshold at or above which a gain-like assignment in a
	// script is treated as dangerous.
	MaxGain float64
}
