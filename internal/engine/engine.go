// Package engine defines the boundary to the live audio/graphics runtime.
//
// The synthesis engine itself is an external collaborator: this package only
// declares the narrow handle the rest of the system is allowed to touch
// (named constructors plus the transport tempo) and the loader that brings a
// handle up exactly once.
package engine

// Constructor builds one live runtime object (a voice or an effect). The
// returned value is owned by the engine; callers hold a reference, never a
// copy.
type Constructor func(args ...any) (any, error)

// Handle is an attached, ready-to-play runtime instance.
type Handle interface {
	// Constructor resolves a named voice or effect constructor. The second
	// return reports whether the engine knows the name.
	Constructor(name string) (Constructor, bool)

	// SetTempo pushes a new transport tempo, in beats per minute.
	SetTempo(bpm float64)

	// Tempo reads the current transport tempo.
	Tempo() float64
}
