package app

import (
	"context"
	"fmt"
	"os"

	"github.com/soundloom/soundloom/internal/bridge"
	"github.com/soundloom/soundloom/internal/ctxlog"
	"github.com/soundloom/soundloom/internal/sandbox"
)

// Initialize brings the engine up and checks manifest/engine parity. It is
// idempotent: the loader coalesces and caches the underlying attempt.
func (a *App) Initialize(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	handle, err := a.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}
	a.store.AttachHandle(handle)

	// Manifests and engine must agree before any script runs.
	if err := a.registry.Validate(handle); err != nil {
		return err
	}
	a.logger.Debug("Capability registry validation passed.")
	return nil
}

// Run executes the configured script files in order and reports the results.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.Initialize(ctx); err != nil {
		return err
	}

	if a.config.BridgeURL != "" {
		b, err := bridge.Connect(ctx, a.store, bridge.Config{URL: a.config.BridgeURL})
		if err != nil {
			return fmt.Errorf("failed to connect bridge: %w", err)
		}
		defer b.Close()
		a.logger.Info("Snapshot bridge enabled.", "url", a.config.BridgeURL)
	}

	sources := make([]string, 0, len(a.config.ScriptPaths))
	for _, path := range a.config.ScriptPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read script %s: %w", path, err)
		}
		sources = append(sources, string(data))
	}

	a.logger.Info("🎛️ Executing scripts.", "count", len(sources))
	outcomes := a.RunScripts(ctx, sources)

	failed := 0
	for i, outcome := range outcomes {
		if outcome.Succeeded {
			a.logger.Info("✅ Script finished.",
				"script", a.config.ScriptPaths[i], "elapsed", outcome.Elapsed)
			continue
		}
		failed++
		a.logger.Error("❌ Script failed.",
			"script", a.config.ScriptPaths[i],
			"kind", outcome.Failure.Kind,
			"error", outcome.Failure.Message)
	}
	if skipped := len(sources) - len(outcomes); skipped > 0 {
		a.logger.Warn("Remaining scripts skipped after failure.", "skipped", skipped)
	}

	snap := a.store.Snapshot()
	a.logger.Info("🎧 Composition state.",
		"tempoBpm", snap.TempoBPM,
		"instruments", len(snap.Instruments),
		"sequences", len(snap.Sequences),
		"playing", snap.Playing)

	a.logger.Debug("App.Run method finished.")
	if failed > 0 {
		return fmt.Errorf("%d of %d scripts failed", failed, len(sources))
	}
	return nil
}

// RunScripts executes raw script sources in order through the execution core,
// honoring the app's validation, tracking, and timeout configuration.
func (a *App) RunScripts(ctx context.Context, sources []string) []sandbox.Outcome {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	opts := sandbox.DefaultOptions()
	if a.config.Timeout > 0 {
		opts.Timeout = a.config.Timeout
	}
	opts.Validate = !a.config.NoValidate
	opts.Track = !a.config.NoTrack
	return a.core.ExecuteSequence(ctx, sources, opts)
}
