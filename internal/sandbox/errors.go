package sandbox

import "fmt"

// Kind tags the failure classes a script execution can end in. Callers
// pattern-match on the kind instead of catching heterogeneous error types.
type Kind string

const (
	// KindNotReady means no live engine handle was available; the script was
	// never compiled or run.
	KindNotReady Kind = "not_ready"
	// KindInvalidSource means the static gate rejected the script; it was
	// never run and had zero side effects.
	KindInvalidSource Kind = "invalid_source"
	// KindRuntimeFailure means the script raised during execution. The raised
	// value is preserved as the cause.
	KindRuntimeFailure Kind = "runtime_failure"
	// KindTimeout means the deadline fired. Side effects applied before the
	// interrupt are not rolled back.
	KindTimeout Kind = "timeout"
)

// Error is the normalized sandbox failure. It is immutable once constructed
// and is the only error shape Execute ever surfaces.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the preserved cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}
