package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/soundloom/soundloom/internal/capability"
	"github.com/soundloom/soundloom/internal/classify"
	"github.com/soundloom/soundloom/internal/composition"
	"github.com/soundloom/soundloom/internal/ctxlog"
	"github.com/soundloom/soundloom/internal/engine"
)

const (
	// DefaultTimeout applies when options leave the timeout unset.
	DefaultTimeout = 5 * time.Second
	// MaxTimeout is the system-wide ceiling; larger configured timeouts are
	// clamped so a bad configuration cannot disable the wall.
	MaxTimeout = 30 * time.Second
)

// Options control a single execution.
type Options struct {
	// Timeout is the hard wall-clock budget. Non-positive means
	// DefaultTimeout; anything above MaxTimeout is clamped.
	Timeout time.Duration
	// Validate runs the static gate before execution.
	Validate bool
	// Track scans the source of a successful execution for declarations to
	// register in the composition store.
	Track bool
}

// DefaultOptions returns the options Execute applies for normal use:
// validation and tracking on, default timeout.
func DefaultOptions() Options {
	return Options{Timeout: DefaultTimeout, Validate: true, Track: true}
}

func (o Options) normalized() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Timeout > MaxTimeout {
		o.Timeout = MaxTimeout
	}
	return o
}

// Core executes untrusted scripts against the capability surface. It owns no
// global state: the registry, loader, and store are passed in at construction
// so each application instance carries its own context.
type Core struct {
	registry   *capability.Registry
	loader     *engine.Loader
	store      *composition.Store
	classifier *classify.Classifier
}

// New creates an execution core.
func New(registry *capability.Registry, loader *engine.Loader, store *composition.Store) *Core {
	return &Core{
		registry:   registry,
		loader:     loader,
		store:      store,
		classifier: classify.New(classify.WithMaxGain(registry.Limits().MaxGain)),
	}
}

// errDeadline is the interrupt value delivered to a script whose budget ran out.
var errDeadline = errors.New("execution deadline exceeded")

// Execute runs one script inside the sandbox and returns its outcome. No
// error or panic escapes: every failure is classified into the outcome.
//
// A timed-out script is interrupted, but side effects it applied before the
// interrupt remain; there is no transactional guarantee.
func (c *Core) Execute(ctx context.Context, source string, opts Options) Outcome {
	opts = opts.normalized()
	logger := ctxlog.FromContext(ctx)

	handle := c.loader.Handle()
	if handle == nil {
		return failure(newError(KindNotReady, "no live engine handle; initialize the engine before executing"), 0)
	}

	if opts.Validate {
		verdict := c.classifier.Classify(source)
		if !verdict.Acceptable {
			msg := strings.Join(verdict.BlockingMessages(), "; ")
			logger.Warn("Script rejected by static gate.", "findings", msg)
			return failure(newError(KindInvalidSource, msg), 0)
		}
	}

	surface := c.registry.Surface(handle)
	vm := goja.New()
	for name, binding := range surface.Bindings() {
		if err := vm.Set(name, binding); err != nil {
			return failure(wrapError(KindRuntimeFailure, fmt.Sprintf("failed to bind capability %q", name), err), 0)
		}
	}

	type result struct {
		value goja.Value
		err   error
	}
	done := make(chan result, 1)

	start := time.Now()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("script panicked: %v", r)}
			}
		}()
		value, err := vm.RunString(source)
		done <- result{value: value, err: err}
	}()

	timer := time.NewTimer(opts.Timeout)
	defer timer.Stop()

	var res result
	select {
	case res = <-done:
	case <-timer.C:
		vm.Interrupt(errDeadline)
		<-done // reap the script goroutine before returning
		elapsed := time.Since(start)
		logger.Warn("Script timed out.", "timeout", opts.Timeout, "elapsed", elapsed)
		return failure(wrapError(KindTimeout,
			fmt.Sprintf("execution exceeded the %s budget", opts.Timeout), errDeadline), elapsed)
	case <-ctx.Done():
		vm.Interrupt(ctx.Err())
		<-done
		elapsed := time.Since(start)
		return failure(wrapError(KindTimeout, "execution canceled by caller", ctx.Err()), elapsed)
	}
	elapsed := time.Since(start)

	if res.err != nil {
		return failure(normalize(res.err), elapsed)
	}

	var value any
	if res.value != nil && !goja.IsUndefined(res.value) && !goja.IsNull(res.value) {
		value = res.value.Export()
	}

	if opts.Track {
		c.track(ctx, source)
	}

	logger.Debug("Script executed.", "elapsed", elapsed)
	return success(value, elapsed)
}

// ExecuteSequence runs scripts strictly in order, never concurrently,
// stopping after the first failed outcome. Outcomes for scripts that were
// never attempted are not fabricated: the result holds exactly one entry per
// attempted script.
func (c *Core) ExecuteSequence(ctx context.Context, sources []string, opts Options) []Outcome {
	outcomes := make([]Outcome, 0, len(sources))
	for _, source := range sources {
		outcome := c.Execute(ctx, source, opts)
		outcomes = append(outcomes, outcome)
		if !outcome.Succeeded {
			break
		}
	}
	return outcomes
}

// Store exposes the composition store the core tracks into.
func (c *Core) Store() *composition.Store {
	return c.store
}

// normalize turns whatever the VM raised into a classified *Error.
// Already-typed sandbox errors pass through unchanged.
func normalize(err error) *Error {
	var sandboxErr *Error
	if errors.As(err, &sandboxErr) {
		return sandboxErr
	}
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return wrapError(KindTimeout, "execution interrupted", err)
	}
	var exception *goja.Exception
	if errors.As(err, &exception) {
		return wrapError(KindRuntimeFailure, exception.Value().String(), err)
	}
	return wrapError(KindRuntimeFailure, err.Error(), err)
}
