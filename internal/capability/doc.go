// Package capability is the trust boundary's allow side: it decides exactly
// which names an untrusted script can call.
//
// The Registry stores the constructor definitions declared by the capability
// manifests. At startup it is validated against the live engine handle so
// that manifests and engine cannot drift apart silently. Per execution, the
// registry builds a Surface: a minimal binding table of constructors plus one
// namespace handle. No binding exposes the host process, filesystem, network,
// or any other ambient capability; whatever is not in the table does not
// exist from the script's point of view.
package capability
