// Package testutil provides the shared harness for integration-style tests:
// a full app instance wired against temporary manifests and the stub engine.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soundloom/soundloom/internal/app"
	"github.com/soundloom/soundloom/internal/composition"
	"github.com/soundloom/soundloom/internal/engine"
	"github.com/soundloom/soundloom/internal/hcl"
	"github.com/soundloom/soundloom/internal/sandbox"
	"github.com/soundloom/soundloom/internal/stubengine"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// DefaultManifest declares the stub engine's full constructor set, so tests
// can execute any default voice or effect without writing their own manifest.
const DefaultManifest = `
voice "Synth" {
  family = "subtractive"
}

voice "FM" {
  family = "frequency-modulation"
}

voice "Mono" {}
voice "Pluck" {}
voice "Sampler" {}

effect "Freeverb" {}
effect "Delay" {}
effect "Distortion" {}
`

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Outcomes  []sandbox.Outcome
	Store     *composition.Store
	Engine    *stubengine.Engine
	LogOutput string
	Err       error
}

// RunScripts builds a complete app against the given manifests (file name to
// content; nil means DefaultManifest) and executes the scripts in order.
func RunScripts(t *testing.T, manifests map[string]string, scripts []string, cfgTweaks ...func(*app.Config)) *HarnessResult {
	t.Helper()

	testApp, eng, logs := buildApp(t, manifests, nil, cfgTweaks)

	ctx := context.Background()
	require.NoError(t, testApp.Initialize(ctx))
	outcomes := testApp.RunScripts(ctx, scripts)

	return &HarnessResult{
		Outcomes:  outcomes,
		Store:     testApp.Store(),
		Engine:    eng,
		LogOutput: logs.String(),
	}
}

// RunApp writes the scripts to real files and drives the full App.Run path,
// returning any initialization or run error instead of failing the test.
func RunApp(t *testing.T, manifests map[string]string, scripts []string, cfgTweaks ...func(*app.Config)) *HarnessResult {
	t.Helper()

	testApp, eng, logs := buildApp(t, manifests, scripts, cfgTweaks)
	err := testApp.Run(context.Background())

	return &HarnessResult{
		Store:     testApp.Store(),
		Engine:    eng,
		LogOutput: logs.String(),
		Err:       err,
	}
}

// buildApp assembles an app over a temporary manifest directory and the stub
// engine. When scripts is non-nil they are written out as .js files and wired
// into the config's script paths.
func buildApp(t *testing.T, manifests map[string]string, scripts []string, cfgTweaks []func(*app.Config)) (*app.App, *stubengine.Engine, *SafeBuffer) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", ".tmp-soundloom-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	if manifests == nil {
		manifests = map[string]string{"core.hcl": DefaultManifest}
	}
	for name, content := range manifests {
		path := filepath.Join(tmpDir, "manifests", name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := &app.Config{
		ScriptPaths:  []string{"unused.js"},
		ManifestPath: filepath.Join(tmpDir, "manifests"),
		LogFormat:    "text",
		LogLevel:     "debug",
	}
	if scripts != nil {
		cfg.ScriptPaths = cfg.ScriptPaths[:0]
		for i, source := range scripts {
			path := filepath.Join(tmpDir, fmt.Sprintf("script-%02d.js", i+1))
			require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
			cfg.ScriptPaths = append(cfg.ScriptPaths, path)
		}
	}
	for _, tweak := range cfgTweaks {
		tweak(cfg)
	}

	eng := stubengine.New()
	logs := &SafeBuffer{}
	testApp := app.New(logs, cfg, hcl.NewLoader(), func(ctx context.Context) (engine.Handle, error) {
		return eng, nil
	})
	return testApp, eng, logs
}
