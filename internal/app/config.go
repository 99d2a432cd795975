package app

import (
	"errors"
	"time"
)

// Config holds all the configuration an App instance needs to run.
type Config struct {
	// ScriptPaths are the script files to execute, in order.
	ScriptPaths []string
	// ManifestPath is the directory (or single file) of capability manifests.
	ManifestPath string
	// BridgeURL, when set, enables the socket.io snapshot broadcaster.
	BridgeURL string

	LogFormat string
	LogLevel  string

	// Timeout is the per-script wall-clock budget; zero means the sandbox
	// default.
	Timeout time.Duration
	// NoValidate disables the static gate. Only useful for trusted input.
	NoValidate bool
	// NoTrack disables composition tracking.
	NoTrack bool
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ScriptPaths) == 0 {
		return nil, errors.New("at least one script path is required")
	}
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
