// Package composition tracks what is currently playing: the instruments and
// sequences created by accepted scripts, plus the transport tempo.
//
// The store is the only mutable record in the system. Everything a
// presentation layer may use is Subscribe, Snapshot, and the individual
// getters; mutation happens exclusively through the documented operations,
// all of which are driven by the execution core's tracking scans or explicit
// API calls. Snapshots are immutable copies and safe to retain.
package composition
