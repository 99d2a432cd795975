package hcl

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/soundloom/soundloom/internal/config"
	"github.com/soundloom/soundloom/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes all possible top-level blocks from a manifest file.
type fileRoot struct {
	Voices  []*voiceBlock  `hcl:"voice,block"`
	Effects []*effectBlock `hcl:"effect,block"`
	Limits  *limitsBlock   `hcl:"limits,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

type voiceBlock struct {
	Type       string         `hcl:"type,label"`
	Family     string         `hcl:"family,optional"`
	Polyphonic bool           `hcl:"polyphonic,optional"`
	Defaults   *defaultsBlock `hcl:"defaults,block"`
}

type effectBlock struct {
	Type     string         `hcl:"type,label"`
	Defaults *defaultsBlock `hcl:"defaults,block"`
}

// defaultsBlock keeps its body opaque: default parameters are free-form
// name/value pairs whose schema belongs to the engine, not to us.
type defaultsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type limitsBlock struct {
	MaxGain float64 `hcl:"max_gain,optional"`
}

// Load reads every *.hcl manifest reachable from the given paths and merges
// the declared blocks into one model. Declaring the same constructor type in
// two places is a load error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL manifest loader started.", "path_count", len(paths))

	model := config.NewModel()

	files, err := findManifestFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest %s: %w", file, diags)
		}

		for _, v := range root.Voices {
			if _, exists := model.Voices[v.Type]; exists {
				return nil, fmt.Errorf("manifest %s: voice %q declared more than once", file, v.Type)
			}
			defaults, err := decodeDefaults(v.Defaults)
			if err != nil {
				return nil, fmt.Errorf("manifest %s, voice %q: %w", file, v.Type, err)
			}
			model.Voices[v.Type] = &config.VoiceDefinition{
				Type:       v.Type,
				Family:     v.Family,
				Polyphonic: v.Polyphonic,
				Defaults:   defaults,
			}
		}
		for _, e := range root.Effects {
			if _, exists := model.Effects[e.Type]; exists {
				return nil, fmt.Errorf("manifest %s: effect %q declared more than once", file, e.Type)
			}
			defaults, err := decodeDefaults(e.Defaults)
			if err != nil {
				return nil, fmt.Errorf("manifest %s, effect %q: %w", file, e.Type, err)
			}
			model.Effects[e.Type] = &config.EffectDefinition{
				Type:     e.Type,
				Defaults: defaults,
			}
		}
		if root.Limits != nil && root.Limits.MaxGain > 0 {
			model.Limits.MaxGain = root.Limits.MaxGain
		}
	}

	logger.Debug("Manifests translated into unified model.",
		"voices", len(model.Voices), "effects", len(model.Effects))
	return model, nil
}

// decodeDefaults evaluates every attribute of a defaults block into a
// constant cty.Value. Expressions referencing variables are rejected: a
// manifest is static configuration, not a program.
func decodeDefaults(block *defaultsBlock) (map[string]cty.Value, error) {
	if block == nil {
		return nil, nil
	}
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid defaults block: %w", diags)
	}
	out := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("default %q is not a constant value: %w", name, diags)
		}
		out[name] = val
	}
	return out, nil
}

// findManifestFiles walks each path (a file or a directory) and collects
// every .hcl file, sorted by WalkDir's lexical order for deterministic loads.
func findManifestFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan manifest path %s: %w", path, err)
		}
	}
	return files, nil
}
