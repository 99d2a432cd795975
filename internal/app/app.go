package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/soundloom/soundloom/internal/capability"
	"github.com/soundloom/soundloom/internal/composition"
	"github.com/soundloom/soundloom/internal/config"
	"github.com/soundloom/soundloom/internal/ctxlog"
	"github.com/soundloom/soundloom/internal/engine"
	"github.com/soundloom/soundloom/internal/sandbox"
)

// App encapsulates one application instance: its logger, capability
// registry, composition store, engine loader, and execution core. Nothing is
// process-global; two Apps in one process are fully isolated.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *capability.Registry
	store    *composition.Store
	loader   *engine.Loader
	core     *sandbox.Core
}

// New is the constructor for the main application. It loads and registers
// the capability manifests and wires the execution core. A failure to load
// manifests is a fatal startup error and panics; the entrypoint recovers it
// into a clean exit message.
func New(outW io.Writer, cfg *Config, manifests config.Loader, factory engine.Factory) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := manifests.Load(ctx, cfg.ManifestPath)
	if err != nil {
		panic(fmt.Errorf("failed to load capability manifests: %w", err))
	}
	logger.Debug("Capability manifests loaded.",
		"voices", len(model.Voices), "effects", len(model.Effects))

	registry := capability.New()
	registry.PopulateFromModel(model)

	store := composition.New()
	loader := engine.NewLoader(factory)

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: registry,
		store:    store,
		loader:   loader,
		core:     sandbox.New(registry, loader, store),
	}
}

// Core returns the application's execution core. This is primarily for testing.
func (a *App) Core() *sandbox.Core {
	return a.core
}

// Store returns the application's composition store.
func (a *App) Store() *composition.Store {
	return a.store
}
