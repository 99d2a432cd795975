package sandbox

import "time"

// Outcome is the always-present result of an execution attempt. No exceptions
// escape Execute: every failure path is represented here as data.
//
// Exactly one of Value and Failure is meaningful, depending on Succeeded.
type Outcome struct {
	Succeeded bool
	// Value is the script's exported return value; nil when the script
	// returned undefined or null.
	Value any
	// Failure classifies why the execution did not succeed.
	Failure *Error
	// Elapsed is the wall-clock execution time. It excludes validation for
	// rejected scripts, which never start running.
	Elapsed time.Duration
}

func success(value any, elapsed time.Duration) Outcome {
	return Outcome{Succeeded: true, Value: value, Elapsed: elapsed}
}

func failure(err *Error, elapsed time.Duration) Outcome {
	return Outcome{Failure: err, Elapsed: elapsed}
}
