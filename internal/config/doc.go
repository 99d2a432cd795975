// Package config defines the format-agnostic model of the capability
// manifests and the Loader interface that format-specific loaders implement.
//
// Manifests declare the entire surface untrusted scripts may touch: voice
// (instrument) constructors, effect constructors, and numeric limits. Keeping
// the model separate from any concrete syntax lets the loading format change
// without touching the capability registry or the execution core.
package config
