// Package classify is the static gate in front of the execution core.
//
// A script is scanned against an ordered denylist of known-dangerous
// constructs (unbounded loops, dynamic evaluation, host access surfaces,
// excessive gain assignments) and an allowlist of domain vocabulary, then
// syntax-checked without execution. The result is always a Verdict; the
// classifier itself never fails and never runs the script.
package classify
