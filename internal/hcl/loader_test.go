package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/soundloom/soundloom/internal/config"
)

func writeManifests(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestLoadTranslatesBlocks(t *testing.T) {
	dir := writeManifests(t, map[string]string{
		"core.hcl": `
voice "Synth" {
  family     = "subtractive"
  polyphonic = true

  defaults {
    gain = 0.5
  }
}

effect "Freeverb" {
  defaults {
    roomSize = 0.8
  }
}

limits {
  max_gain = 8
}
`,
		"extra/fm.hcl": `
voice "FM" {
  family = "frequency-modulation"
}
`,
	})

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	require.Contains(t, model.Voices, "Synth")
	synth := model.Voices["Synth"]
	assert.Equal(t, "subtractive", synth.Family)
	assert.True(t, synth.Polyphonic)
	assert.True(t, synth.Defaults["gain"].RawEquals(cty.NumberFloatVal(0.5)))

	require.Contains(t, model.Voices, "FM")
	assert.Nil(t, model.Voices["FM"].Defaults)

	require.Contains(t, model.Effects, "Freeverb")
	assert.InDelta(t, 8, model.Limits.MaxGain, 0.0001)
}

func TestLoadDefaultLimits(t *testing.T) {
	dir := writeManifests(t, map[string]string{
		"core.hcl": `voice "Synth" {}`,
	})

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	assert.InDelta(t, config.DefaultMaxGain, model.Limits.MaxGain, 0.0001)
}

func TestLoadRejectsDuplicateTypes(t *testing.T) {
	dir := writeManifests(t, map[string]string{
		"a.hcl": `voice "Synth" {}`,
		"b.hcl": `voice "Synth" { family = "other" }`,
	})

	_, err := NewLoader().Load(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared more than once")
}

func TestLoadRejectsNonConstantDefaults(t *testing.T) {
	dir := writeManifests(t, map[string]string{
		"a.hcl": `
voice "Synth" {
  defaults {
    gain = some.variable
  }
}
`,
	})

	_, err := NewLoader().Load(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a constant value")
}

func TestLoadRejectsInvalidSyntax(t *testing.T) {
	dir := writeManifests(t, map[string]string{
		"broken.hcl": `voice "Synth" {`,
	})

	_, err := NewLoader().Load(context.Background(), dir)
	require.Error(t, err)
}
