// Package hcl loads capability manifests written in HCL.
//
// A manifest names the constructors the execution core is allowed to bind
// into a script's global scope, for example:
//
//	voice "Synth" {
//	  family     = "subtractive"
//	  polyphonic = true
//
//	  defaults {
//	    gain = 0.5
//	  }
//	}
//
//	effect "Freeverb" {
//	  defaults {
//	    roomSize = 0.8
//	  }
//	}
//
//	limits {
//	  max_gain = 10
//	}
//
// Nothing a manifest can express grants scripts ambient host access; it can
// only select from constructors the live engine already exposes, which the
// capability registry verifies at startup.
package hcl
