// Package sandbox is the execution core of the trust boundary: it takes a
// candidate script that has already been produced by something untrusted,
// decides whether it may run (the static gate), runs it with a hard
// wall-clock budget against the minimal capability surface, and normalizes
// every possible ending into an Outcome.
//
// Each script runs on its own goroutine and the deadline delivers a VM
// interrupt, so a spinning script is actually halted rather than merely
// observed. Two limitations remain: side effects applied before the
// interrupt are not rolled back, and a script that settles before the
// deadline always wins the race regardless of how small the budget was.
package sandbox
