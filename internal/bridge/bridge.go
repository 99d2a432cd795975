// Package bridge publishes composition snapshots to a remote observer over
// socket.io. It is a pure consumer of the registry's subscribe/snapshot
// contract: it holds no mutation access and the rest of the system works
// identically with or without it.
package bridge

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/soundloom/soundloom/internal/composition"
	"github.com/soundloom/soundloom/internal/ctxlog"
)

// SnapshotEvent is the event name snapshots are emitted under.
const SnapshotEvent = "composition.snapshot"

// Config holds the connection settings for a Broadcaster.
type Config struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// Broadcaster forwards every composition state transition to a socket.io
// endpoint. Emission is best-effort: a broken connection is logged, never
// surfaced to the execution path.
type Broadcaster struct {
	io          *socket.Socket
	unsubscribe func()
}

// Connect dials the endpoint and subscribes to the store. The returned
// Broadcaster must be closed to release the subscription and the socket.
func Connect(ctx context.Context, store *composition.Store, cfg Config) (*Broadcaster, error) {
	logger := ctxlog.FromContext(ctx).With("bridge", cfg.URL)

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bridge URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification for bridge connection")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Bridge connected.", "sid", io.Id())
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		logger.Warn("Bridge connection error.", "error", errs)
	})

	b := &Broadcaster{io: io}
	b.unsubscribe = store.Subscribe(func(snap composition.Snapshot) {
		if err := io.Emit(SnapshotEvent, Payload(snap)); err != nil {
			logger.Warn("Failed to emit snapshot.", "error", err)
		}
	})

	io.Connect()
	return b, nil
}

// Close detaches from the store and disconnects the socket.
func (b *Broadcaster) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	b.io.Disconnect()
}

// Payload flattens a snapshot into the wire shape observers consume. Runtime
// object references never leave the process.
func Payload(snap composition.Snapshot) map[string]any {
	instruments := make([]map[string]any, len(snap.Instruments))
	for i, inst := range snap.Instruments {
		instruments[i] = map[string]any{
			"id":        inst.ID,
			"name":      inst.Name,
			"kind":      inst.Kind,
			"createdAt": inst.CreatedAt,
		}
	}
	sequences := make([]map[string]any, len(snap.Sequences))
	for i, seq := range snap.Sequences {
		sequences[i] = map[string]any{
			"id":           seq.ID,
			"instrumentId": seq.InstrumentID,
			"target":       seq.Target,
			"values":       seq.Values,
			"timings":      seq.Timings,
			"playing":      seq.Playing,
		}
	}
	return map[string]any{
		"tempoBpm":    snap.TempoBPM,
		"instruments": instruments,
		"sequences":   sequences,
		"playing":     snap.Playing,
		"takenAt":     snap.TakenAt,
	}
}
